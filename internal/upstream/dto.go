package upstream

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
)

type accountDTO struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Color    string `json:"color"`
	Type     string `json:"type"`
	IsActive *bool  `json:"is_active"`
}

type transactionDTO struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id"`
	Description        string      `json:"description"`
	Amount             json.Number `json:"amount"`
	Type               string      `json:"type"`
	CategoryID         string      `json:"category_id"`
	AccountID          string      `json:"account_id"`
	DueDate            string      `json:"due_date"`
	CompetenceDate     string      `json:"competence_date"`
	IsPaid             bool        `json:"is_paid"`
	Observation        string      `json:"observation"`
	IsRecurring        bool        `json:"is_recurring"`
	Installments       int         `json:"installments"`
	CurrentInstallment int         `json:"current_installment"`
	TransferID         *string     `json:"transfer_id"`
	TransferGroup      *string     `json:"transfer_group"`
}

type categoryDTO struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	ParentID    *string `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
}

func (d accountDTO) toAccount() (ledger.Account, error) {
	id, err := parseID("id", d.ID)
	if err != nil {
		return ledger.Account{}, err
	}
	user, err := optionalID("user_id", d.UserID)
	if err != nil {
		return ledger.Account{}, err
	}
	return ledger.Account{
		ID:       id,
		UserID:   user,
		Name:     d.Name,
		Currency: strings.ToUpper(strings.TrimSpace(d.Currency)),
		Color:    d.Color,
		Type:     ledger.TransactionType(d.Type),
		Active:   d.IsActive == nil || *d.IsActive,
	}, nil
}

func (d transactionDTO) toTransaction() (ledger.Transaction, error) {
	id, err := parseID("id", d.ID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	account, err := parseID("account_id", d.AccountID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	user, err := optionalID("user_id", d.UserID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	category, err := optionalID("category_id", d.CategoryID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	amount, err := d.Amount.Int64()
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("amount %q is not an integer", d.Amount.String())
	}
	if amount < 0 {
		return ledger.Transaction{}, fmt.Errorf("amount %d is negative", amount)
	}
	return ledger.Transaction{
		ID:                 id,
		UserID:             user,
		AccountID:          account,
		CategoryID:         category,
		Type:               ledger.TransactionType(d.Type),
		Description:        d.Description,
		Amount:             amount,
		DueDate:            d.DueDate,
		CompetenceDate:     d.CompetenceDate,
		Paid:               d.IsPaid,
		Observation:        d.Observation,
		TransferID:         firstNonEmpty(d.TransferID, d.TransferGroup),
		Recurring:          d.IsRecurring,
		Installments:       d.Installments,
		CurrentInstallment: d.CurrentInstallment,
	}, nil
}

func (d categoryDTO) toCategory() (ledger.Category, error) {
	id, err := parseID("id", d.ID)
	if err != nil {
		return ledger.Category{}, err
	}
	user, err := optionalID("user_id", d.UserID)
	if err != nil {
		return ledger.Category{}, err
	}
	c := ledger.Category{
		ID:          id,
		UserID:      user,
		Name:        d.Name,
		Description: d.Description,
		Type:        ledger.CategoryType(d.Type),
		Color:       d.Color,
		Icon:        d.Icon,
		Active:      d.IsActive == nil || *d.IsActive,
	}
	if d.ParentID != nil && strings.TrimSpace(*d.ParentID) != "" {
		parent, err := parseID("parent_id", *d.ParentID)
		if err != nil {
			return ledger.Category{}, err
		}
		c.ParentID = &parent
	}
	return c, nil
}

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", field, s, err)
	}
	return id, nil
}

func optionalID(field, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, nil
	}
	return parseID(field, s)
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
