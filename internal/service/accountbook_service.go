package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type contactRepository interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Contact, int, error)
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string) error
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, contactID string) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (bool, error)
	Balances(ctx context.Context) ([]models.ContactBalance, error)
}

// SaveContactRequest represents payload for creating or updating contacts.
type SaveContactRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// AddTransactionRequest records one credit or debit against a contact.
type AddTransactionRequest struct {
	Type   string  `json:"type" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
}

// AccountBookService manages contacts and their credit/debit ledgers.
type AccountBookService struct {
	repo      contactRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAccountBookService constructs an AccountBookService.
func NewAccountBookService(repo contactRepository, validate *validator.Validate, logger *zap.Logger) *AccountBookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountBookService{repo: repo, validator: validate, logger: logger}
}

// ListContacts returns contacts plus pagination data.
func (s *AccountBookService) ListContacts(ctx context.Context, search string, page, pageSize int) ([]models.Contact, *models.Pagination, error) {
	contacts, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contacts")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return contacts, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// CreateContact registers a new account-book contact.
func (s *AccountBookService) CreateContact(ctx context.Context, req SaveContactRequest) (*models.Contact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload")
	}
	contact := &models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Phone:   normalizeOptional(req.Phone),
		Address: normalizeOptional(req.Address),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create contact")
	}
	return contact, nil
}

// UpdateContact modifies an existing contact.
func (s *AccountBookService) UpdateContact(ctx context.Context, id string, req SaveContactRequest) (*models.Contact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload")
	}
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact")
	}
	contact.Name = strings.TrimSpace(req.Name)
	contact.Phone = normalizeOptional(req.Phone)
	contact.Address = normalizeOptional(req.Address)
	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update contact")
	}
	return contact, nil
}

// DeleteContact removes a contact together with its transactions.
func (s *AccountBookService) DeleteContact(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "contact not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete contact")
	}
	return nil
}

// AddTransaction records one credit or debit entry for a contact.
func (s *AccountBookService) AddTransaction(ctx context.Context, contactID string, req AddTransactionRequest) (*models.Transaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transaction payload")
	}
	txType := models.TransactionType(req.Type)
	if !models.ValidTransactionType(txType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "transaction type must be credit or debit")
	}
	if _, err := s.repo.FindByID(ctx, contactID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact")
	}

	tx := &models.Transaction{
		ContactID: contactID,
		Type:      txType,
		Amount:    req.Amount,
		Date:      req.Date,
		Note:      normalizeOptional(req.Note),
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record transaction")
	}
	return tx, nil
}

// DeleteTransaction removes one ledger entry.
func (s *AccountBookService) DeleteTransaction(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete transaction")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "transaction not found")
	}
	return nil
}

// Statement returns a contact's full ledger with running totals.
func (s *AccountBookService) Statement(ctx context.Context, contactID string) (*models.ContactStatement, error) {
	contact, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact")
	}
	txs, err := s.repo.ListTransactions(ctx, contactID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transactions")
	}

	summary := models.ContactBalance{ContactID: contact.ID, ContactName: contact.Name}
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionCredit:
			summary.TotalCredit += tx.Amount
		case models.TransactionDebit:
			summary.TotalDebit += tx.Amount
		}
	}
	summary.Balance = summary.TotalCredit - summary.TotalDebit

	return &models.ContactStatement{Contact: *contact, Transactions: txs, Summary: summary}, nil
}

// Balances summarises every contact's position.
func (s *AccountBookService) Balances(ctx context.Context) ([]models.ContactBalance, error) {
	balances, err := s.repo.Balances(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load balances")
	}
	return balances, nil
}
