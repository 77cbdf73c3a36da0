package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinoosan/finsight/internal/ledger"
)

func TestIsTransfer(t *testing.T) {
	assert.True(t, IsTransfer(ledger.Transaction{TransferID: "grp-1"}))
	assert.False(t, IsTransfer(ledger.Transaction{}))
	assert.False(t, IsTransfer(ledger.Transaction{TransferID: ""}))
}
