package models

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// ValidTransactionType reports whether the given type is known.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionCredit || t == TransactionDebit
}

// Contact is an account-book party (customer, supplier, lender).
type Contact struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is one credit or debit entry against a contact.
type Transaction struct {
	ID        string          `db:"id" json:"id"`
	ContactID string          `db:"contact_id" json:"contact_id"`
	Type      TransactionType `db:"type" json:"type"`
	Amount    float64         `db:"amount" json:"amount"`
	Date      string          `db:"date" json:"date"`
	Note      *string         `db:"note" json:"note,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// ContactBalance summarises one contact's ledger position.
type ContactBalance struct {
	ContactID   string  `json:"contact_id"`
	ContactName string  `json:"contact_name"`
	TotalCredit float64 `json:"total_credit"`
	TotalDebit  float64 `json:"total_debit"`
	Balance     float64 `json:"balance"`
}

// ContactStatement is a contact plus transactions and running totals.
type ContactStatement struct {
	Contact      Contact        `json:"contact"`
	Transactions []Transaction  `json:"transactions"`
	Summary      ContactBalance `json:"summary"`
}
