package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

// ContactRepository manages account-book contacts and their transactions.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository constructs a ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// List returns contacts matching the search with total count.
func (r *ContactRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Contact, int, error) {
	base := "FROM contacts WHERE 1=1"
	var args []interface{}
	if search != "" {
		base += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(search)+"%")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT id, name, phone, address, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", base, pageSize, offset)
	var contacts []models.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}
	return contacts, total, nil
}

// FindByID fetches a contact by ID.
func (r *ContactRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	const query = `SELECT id, name, phone, address, created_at, updated_at FROM contacts WHERE id = $1`
	var contact models.Contact
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create inserts a new contact record.
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	const query = `INSERT INTO contacts (id, name, phone, address, created_at, updated_at)
		VALUES (:id, :name, :phone, :address, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// Update modifies an existing contact record.
func (r *ContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	contact.UpdatedAt = time.Now().UTC()
	const query = `UPDATE contacts SET name = :name, phone = :phone, address = :address, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// Delete removes a contact and, via cascade, its transactions.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM contacts WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// CreateTransaction inserts one credit or debit entry.
func (r *ContactRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO transactions (id, contact_id, type, amount, date, note, created_at)
		VALUES (:id, :contact_id, :type, :amount, :date, :note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tx); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ListTransactions returns a contact's entries, oldest first.
func (r *ContactRepository) ListTransactions(ctx context.Context, contactID string) ([]models.Transaction, error) {
	const query = `SELECT id, contact_id, type, amount, date, note, created_at
		FROM transactions WHERE contact_id = $1 ORDER BY date ASC, created_at ASC`
	var txs []models.Transaction
	if err := r.db.SelectContext(ctx, &txs, query, contactID); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// DeleteTransaction removes one entry by ID.
func (r *ContactRepository) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM transactions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction rows affected: %w", err)
	}
	return affected > 0, nil
}

// Balances aggregates credit and debit totals per contact.
func (r *ContactRepository) Balances(ctx context.Context) ([]models.ContactBalance, error) {
	const query = `SELECT c.id AS contact_id, c.name AS contact_name,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'credit'), 0) AS total_credit,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'debit'), 0) AS total_debit,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'credit'), 0) - COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'debit'), 0) AS balance
		FROM contacts c LEFT JOIN transactions t ON t.contact_id = c.id
		GROUP BY c.id, c.name ORDER BY c.name ASC`
	var balances []struct {
		ContactID   string  `db:"contact_id"`
		ContactName string  `db:"contact_name"`
		TotalCredit float64 `db:"total_credit"`
		TotalDebit  float64 `db:"total_debit"`
		Balance     float64 `db:"balance"`
	}
	if err := r.db.SelectContext(ctx, &balances, query); err != nil {
		return nil, fmt.Errorf("contact balances: %w", err)
	}
	out := make([]models.ContactBalance, len(balances))
	for i, b := range balances {
		out[i] = models.ContactBalance{
			ContactID:   b.ContactID,
			ContactName: b.ContactName,
			TotalCredit: b.TotalCredit,
			TotalDebit:  b.TotalDebit,
			Balance:     b.Balance,
		}
	}
	return out, nil
}
