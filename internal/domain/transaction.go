package domain

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Keys of the JSON object the completion model is asked to return.
// The model echoes these verbatim, so they are the wire contract.
const (
	KeyTransactionDate = "Transaction Date"
	KeyBankName        = "Bank Name"
	KeyAccountType     = "Account Type"
	KeyAmount          = "Transaction Amount"
	KeyCurrency        = "Transaction Currency"
	KeyCategory        = "Transaction Category"
	KeyDescription     = "Transaction desc"
)

// MaxDescriptionLen is the upper bound on the stored transaction description.
const MaxDescriptionLen = 50

// Categories is the closed set a transaction can be classified into.
// CategoryOther is the fallback when the model returns anything else.
var Categories = []string{
	"Leisure",
	"Education",
	"Utilities",
	"Groceries",
	"Health",
	"Transport",
	"Entertainment",
	"Other",
}

const CategoryOther = "Other"

// TransactionRecord is the structured form of one spending transaction.
// The extraction layer produces it without ID/UserEmail/CreatedDate; the
// caller attaches the audit fields and the store assigns the ID on insert.
type TransactionRecord struct {
	ID              int64           `json:"id,omitempty"`
	TransactionDate civil.Date      `json:"transaction_date"`
	BankName        *string         `json:"bank_name"`
	AccountType     *string         `json:"account_type"`
	Amount          decimal.Decimal `json:"transaction_amount"`
	Currency        string          `json:"transaction_currency"`
	Category        string          `json:"transaction_category"`
	Description     string          `json:"transaction_desc"`
	UserEmail       string          `json:"user_email,omitempty"`
	CreatedDate     *civil.Date     `json:"created_date,omitempty"`
}

// User is a registered account holder.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	CreatedBy    string
	CreatedAt    civil.Date
}

// NormalizeCategory maps a model-supplied category onto the closed set.
// Matching is case-insensitive; anything unrecognized becomes CategoryOther.
func NormalizeCategory(category string) string {
	trimmed := strings.TrimSpace(category)
	for _, c := range Categories {
		if strings.EqualFold(trimmed, c) {
			return c
		}
	}
	return CategoryOther
}

// NormalizeCurrency canonicalizes currency markers. Textual rupee markers
// ("Rs", "Rs.", "Rupees") map to INR; everything else is upper-cased as-is.
func NormalizeCurrency(currency string) string {
	trimmed := strings.TrimSpace(currency)
	if trimmed == "" {
		return ""
	}
	switch strings.ToLower(strings.TrimSuffix(trimmed, ".")) {
	case "rs", "rupee", "rupees":
		return "INR"
	}
	return strings.ToUpper(trimmed)
}

// TruncateDescription caps a free-text label at MaxDescriptionLen runes.
func TruncateDescription(desc string) string {
	runes := []rune(strings.TrimSpace(desc))
	if len(runes) <= MaxDescriptionLen {
		return string(runes)
	}
	return string(runes[:MaxDescriptionLen])
}
