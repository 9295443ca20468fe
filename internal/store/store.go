package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/rajpandit/expense-tracker/internal/domain"
)

// Table names are compile-time constants; the schema is statically known and
// never substituted from configuration.
const (
	transactionsTable = "transactions"
	usersTable        = "users"
)

// Messages returned by Insert. Kept stable because callers surface them to
// users verbatim.
const (
	MsgSaved     = "Transaction details saved successfully!"
	MsgDuplicate = "Transaction details could NOT be saved! Duplicate record."
)

// Store is the persistence layer over a single SQLite database file.
// It owns one *sql.DB for its lifetime; Close releases it.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("Open: database file path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Open: open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// EnsureSchema idempotently creates the transactions and users tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+transactionsTable+` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_date TEXT,
			bank_name TEXT,
			account_type TEXT,
			transaction_amount REAL,
			transaction_currency TEXT,
			transaction_category TEXT,
			transaction_desc TEXT,
			user_email TEXT,
			created_date TEXT
		)`); err != nil {
		return fmt.Errorf("EnsureSchema: create %s: %w", transactionsTable, err)
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+usersTable+` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_name TEXT,
			user_email TEXT UNIQUE,
			user_encrypted_password BLOB,
			created_by TEXT,
			created_at TEXT
		)`); err != nil {
		return fmt.Errorf("EnsureSchema: create %s: %w", usersTable, err)
	}

	return nil
}

// InsertResult reports the outcome of an Insert. A duplicate is a normal
// outcome, not an error.
type InsertResult struct {
	Saved   bool
	Message string
}

// Insert persists a record unless an identical one already exists.
//
// Identity is the dedup tuple: date, bank, account type, amount, currency,
// category and description, with NULLs compared equal through a sentinel and
// the description compared case-insensitively. The existence check and the
// insert run in one transaction so concurrent inserts of the same record
// cannot both pass the check.
//
// On success the store-assigned ID is written back into rec.
func (s *Store) Insert(ctx context.Context, rec *domain.TransactionRecord) (InsertResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InsertResult{}, fmt.Errorf("Insert: begin tx: %w", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM `+transactionsTable+`
		WHERE transaction_date = ?
		  AND coalesce(bank_name, 'X') = coalesce(?, 'X')
		  AND coalesce(account_type, 'X') = coalesce(?, 'X')
		  AND transaction_amount = ?
		  AND coalesce(transaction_currency, 'X') = coalesce(?, 'X')
		  AND coalesce(transaction_category, 'X') = coalesce(?, 'X')
		  AND upper(coalesce(transaction_desc, 'X')) = upper(coalesce(?, 'X'))`,
		rec.TransactionDate.String(),
		rec.BankName,
		rec.AccountType,
		rec.Amount.InexactFloat64(),
		nullIfEmpty(rec.Currency),
		nullIfEmpty(rec.Category),
		nullIfEmpty(rec.Description),
	).Scan(&existingID)

	switch {
	case err == nil:
		return InsertResult{Saved: false, Message: MsgDuplicate}, nil
	case err != sql.ErrNoRows:
		return InsertResult{}, fmt.Errorf("Insert: duplicate check: %w", err)
	}

	var createdDate interface{}
	if rec.CreatedDate != nil {
		createdDate = rec.CreatedDate.String()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO `+transactionsTable+` (
			transaction_date, bank_name, account_type,
			transaction_amount, transaction_currency,
			transaction_category, transaction_desc,
			user_email, created_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TransactionDate.String(),
		rec.BankName,
		rec.AccountType,
		rec.Amount.InexactFloat64(),
		nullIfEmpty(rec.Currency),
		nullIfEmpty(rec.Category),
		nullIfEmpty(rec.Description),
		nullIfEmpty(rec.UserEmail),
		createdDate,
	)
	if err != nil {
		return InsertResult{}, fmt.Errorf("Insert: inserting row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return InsertResult{}, fmt.Errorf("Insert: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return InsertResult{}, fmt.Errorf("Insert: commit: %w", err)
	}

	rec.ID = id
	return InsertResult{Saved: true, Message: MsgSaved}, nil
}

// Filter narrows a Fetch. Zero-valued fields are ignored; Start/End bound
// the transaction date inclusively.
type Filter struct {
	Start     *civil.Date
	End       *civil.Date
	UserEmail string
}

// Fetch returns records matching the filter, newest transaction date first.
// Row IDs are always populated so callers can delete by ID.
func (s *Store) Fetch(ctx context.Context, filter Filter) ([]*domain.TransactionRecord, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Start != nil {
		conds = append(conds, "transaction_date >= ?")
		args = append(args, filter.Start.String())
	}
	if filter.End != nil {
		conds = append(conds, "transaction_date <= ?")
		args = append(args, filter.End.String())
	}
	if filter.UserEmail != "" {
		conds = append(conds, "user_email = ?")
		args = append(args, filter.UserEmail)
	}

	query := `
		SELECT id, transaction_date, bank_name, account_type,
		       transaction_amount, transaction_currency,
		       transaction_category, transaction_desc,
		       user_email, created_date
		FROM ` + transactionsTable
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY transaction_date DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Fetch: query: %w", err)
	}
	defer rows.Close()

	var records []*domain.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("Fetch: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Fetch: iterating rows: %w", err)
	}

	return records, nil
}

// DeleteByIDs removes all rows whose id is in ids, all-or-nothing: the batch
// runs in one transaction and any failure rolls back every deletion.
// Non-existent IDs are a no-op; the returned count is rows actually removed.
func (s *Store) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("DeleteByIDs: begin tx: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM "+transactionsTable+" WHERE id IN ("+placeholders+")",
		args...)
	if err != nil {
		return 0, fmt.Errorf("DeleteByIDs: deleting rows: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByIDs: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("DeleteByIDs: commit: %w", err)
	}

	return deleted, nil
}

func scanRecord(rows *sql.Rows) (*domain.TransactionRecord, error) {
	var (
		rec         domain.TransactionRecord
		dateStr     string
		bankName    sql.NullString
		accountType sql.NullString
		amount      float64
		currency    sql.NullString
		category    sql.NullString
		desc        sql.NullString
		userEmail   sql.NullString
		createdStr  sql.NullString
	)

	if err := rows.Scan(&rec.ID, &dateStr, &bankName, &accountType, &amount,
		&currency, &category, &desc, &userEmail, &createdStr); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	date, err := civil.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored transaction_date %q: %w", dateStr, err)
	}
	rec.TransactionDate = date
	rec.Amount = decimal.NewFromFloat(amount)

	if bankName.Valid {
		rec.BankName = &bankName.String
	}
	if accountType.Valid {
		rec.AccountType = &accountType.String
	}
	rec.Currency = currency.String
	rec.Category = category.String
	rec.Description = desc.String
	rec.UserEmail = userEmail.String

	if createdStr.Valid && createdStr.String != "" {
		created, err := civil.ParseDate(createdStr.String)
		if err != nil {
			return nil, fmt.Errorf("invalid stored created_date %q: %w", createdStr.String, err)
		}
		rec.CreatedDate = &created
	}

	return &rec, nil
}

// nullIfEmpty maps "" to SQL NULL so that absent values round-trip as NULL.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
