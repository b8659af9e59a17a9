package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type mockContactRepo struct {
	contacts     map[string]*models.Contact
	transactions map[string][]models.Transaction
	deleted      []string
}

func (m *mockContactRepo) List(ctx context.Context, search string, page, pageSize int) ([]models.Contact, int, error) {
	out := []models.Contact{}
	for _, c := range m.contacts {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockContactRepo) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	if c, ok := m.contacts[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockContactRepo) Create(ctx context.Context, contact *models.Contact) error {
	if m.contacts == nil {
		m.contacts = make(map[string]*models.Contact)
	}
	if contact.ID == "" {
		contact.ID = "generated"
	}
	contact.CreatedAt = time.Now()
	cp := *contact
	m.contacts[contact.ID] = &cp
	return nil
}

func (m *mockContactRepo) Update(ctx context.Context, contact *models.Contact) error {
	cp := *contact
	m.contacts[contact.ID] = &cp
	return nil
}

func (m *mockContactRepo) Delete(ctx context.Context, id string) error {
	delete(m.contacts, id)
	delete(m.transactions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockContactRepo) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if m.transactions == nil {
		m.transactions = make(map[string][]models.Transaction)
	}
	tx.ID = "generated"
	tx.CreatedAt = time.Now()
	m.transactions[tx.ContactID] = append(m.transactions[tx.ContactID], *tx)
	return nil
}

func (m *mockContactRepo) ListTransactions(ctx context.Context, contactID string) ([]models.Transaction, error) {
	return m.transactions[contactID], nil
}

func (m *mockContactRepo) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	for contactID, txs := range m.transactions {
		for i, tx := range txs {
			if tx.ID == id {
				m.transactions[contactID] = append(txs[:i], txs[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockContactRepo) Balances(ctx context.Context) ([]models.ContactBalance, error) {
	out := []models.ContactBalance{}
	for id, c := range m.contacts {
		balance := models.ContactBalance{ContactID: id, ContactName: c.Name}
		for _, tx := range m.transactions[id] {
			switch tx.Type {
			case models.TransactionCredit:
				balance.TotalCredit += tx.Amount
			case models.TransactionDebit:
				balance.TotalDebit += tx.Amount
			}
		}
		balance.Balance = balance.TotalCredit - balance.TotalDebit
		out = append(out, balance)
	}
	return out, nil
}

func TestAccountBookServiceAddTransactionRejectsUnknownType(t *testing.T) {
	repo := &mockContactRepo{contacts: map[string]*models.Contact{
		"c1": {ID: "c1", Name: "Supplier"},
	}}
	service := NewAccountBookService(repo, validator.New(), zap.NewNop())

	_, err := service.AddTransaction(context.Background(), "c1", AddTransactionRequest{
		Type:   "transfer",
		Amount: 100,
		Date:   "2026-03-02",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAccountBookServiceAddTransactionUnknownContact(t *testing.T) {
	service := NewAccountBookService(&mockContactRepo{}, validator.New(), zap.NewNop())

	_, err := service.AddTransaction(context.Background(), "ghost", AddTransactionRequest{
		Type:   "credit",
		Amount: 100,
		Date:   "2026-03-02",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAccountBookServiceStatementTotals(t *testing.T) {
	repo := &mockContactRepo{contacts: map[string]*models.Contact{
		"c1": {ID: "c1", Name: "Supplier"},
	}}
	service := NewAccountBookService(repo, validator.New(), zap.NewNop())

	for _, entry := range []AddTransactionRequest{
		{Type: "credit", Amount: 500, Date: "2026-03-02"},
		{Type: "credit", Amount: 250, Date: "2026-03-03"},
		{Type: "debit", Amount: 100, Date: "2026-03-04"},
	} {
		_, err := service.AddTransaction(context.Background(), "c1", entry)
		require.NoError(t, err)
	}

	statement, err := service.Statement(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "Supplier", statement.Contact.Name)
	assert.Len(t, statement.Transactions, 3)
	assert.Equal(t, 750.0, statement.Summary.TotalCredit)
	assert.Equal(t, 100.0, statement.Summary.TotalDebit)
	assert.Equal(t, 650.0, statement.Summary.Balance)
}

func TestAccountBookServiceDeleteTransactionNotFound(t *testing.T) {
	service := NewAccountBookService(&mockContactRepo{}, validator.New(), zap.NewNop())

	err := service.DeleteTransaction(context.Background(), "ghost")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAccountBookServiceDeleteContactCascades(t *testing.T) {
	repo := &mockContactRepo{
		contacts: map[string]*models.Contact{
			"c1": {ID: "c1", Name: "Supplier"},
		},
		transactions: map[string][]models.Transaction{
			"c1": {{ID: "t1", ContactID: "c1", Type: models.TransactionCredit, Amount: 10}},
		},
	}
	service := NewAccountBookService(repo, validator.New(), zap.NewNop())

	require.NoError(t, service.DeleteContact(context.Background(), "c1"))
	assert.Empty(t, repo.contacts)
	assert.Empty(t, repo.transactions)
}
