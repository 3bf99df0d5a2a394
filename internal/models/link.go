package models

import (
	"time"

	"github.com/google/uuid"
)

// BankLink associates a Telegram user with a SimpleFIN access URL. The
// access URL embeds basic-auth credentials and is the durable secret for
// the bank connection; it must never be logged.
type BankLink struct {
	CreatedAt time.Time `db:"created_at"`
	AccessURL string    `db:"access_url"`
	BankName  string    `db:"bank_name"`
	UserID    int64     `db:"user_id"`
	ID        uuid.UUID `db:"id"`
}

// AccountSnapshot is one account's state as reported by the bridge. It is
// produced fresh on every fetch and never persisted.
type AccountSnapshot struct {
	ID       string
	Name     string
	Balance  string
	Currency string
	OrgLabel string
}

// BankAccounts is the aggregation result for a single linked bank. When the
// bridge could not be reached Unavailable is set and Accounts is empty.
type BankAccounts struct {
	Link        BankLink
	Accounts    []AccountSnapshot
	Unavailable bool
}
