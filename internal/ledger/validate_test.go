package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/finsight/internal/errs"
)

func TestNormalizeCurrency(t *testing.T) {
	got, err := NormalizeCurrency(" brl ")
	require.NoError(t, err)
	assert.Equal(t, "BRL", got)

	for _, bad := range []string{"", "   ", "XYZQ", "reais"} {
		_, err := NormalizeCurrency(bad)
		assert.Truef(t, errors.Is(err, errs.ErrInvalid), "%q should be invalid, got %v", bad, err)
	}
}

func TestAccountValidate(t *testing.T) {
	ok := Account{ID: uuid.New(), Currency: "USD", Type: TypeIncome}
	require.NoError(t, ok.Validate())

	noType := Account{ID: uuid.New(), Currency: "EUR"}
	require.NoError(t, noType.Validate())

	cases := map[string]Account{
		"missing id":   {Currency: "USD"},
		"bad currency": {ID: uuid.New(), Currency: "ZZZ1"},
		"bad type":     {ID: uuid.New(), Currency: "USD", Type: "transfer"},
	}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, a.Validate(), errs.ErrInvalid)
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	base := Transaction{ID: uuid.New(), AccountID: uuid.New(), Type: TypeExpense, Amount: 0}
	require.NoError(t, base.Validate(), "zero amount is allowed on records coming from the backend")

	neg := base
	neg.Amount = -1
	assert.ErrorIs(t, neg.Validate(), errs.ErrInvalid)

	noAcc := base
	noAcc.AccountID = uuid.Nil
	assert.ErrorIs(t, noAcc.Validate(), errs.ErrInvalid)

	badType := base
	badType.Type = "transfer"
	assert.ErrorIs(t, badType.Validate(), errs.ErrInvalid)
}

func TestCategoryValidate(t *testing.T) {
	id := uuid.New()
	require.NoError(t, Category{ID: id, Type: CategoryTransfer}.Validate())

	self := Category{ID: id, Type: CategoryIncome, ParentID: &id}
	assert.ErrorIs(t, self.Validate(), errs.ErrInvalid)

	assert.ErrorIs(t, Category{ID: id, Type: "other"}.Validate(), errs.ErrInvalid)
}

func TestCategoryIsTopLevel(t *testing.T) {
	parent := uuid.New()
	nilParent := uuid.Nil
	assert.True(t, Category{}.IsTopLevel())
	assert.True(t, Category{ParentID: &nilParent}.IsTopLevel())
	assert.False(t, Category{ParentID: &parent}.IsTopLevel())
}
