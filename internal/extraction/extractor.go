package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/rajpandit/expense-tracker/internal/domain"
)

// Extractor turns a free-text transaction description into a structured
// record via one completion call. It has no local state and performs no
// retries; a failed attempt is terminal.
type Extractor struct {
	completer Completer
}

// NewExtractor creates an extractor backed by the given completer.
func NewExtractor(completer Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract parses one transaction description. referenceDate anchors
// relative-date phrases ("yesterday", "last week", ...) and is the default
// when the description carries no date at all.
//
// Failures are either *ServiceError (completion call failed) or *ParseError
// (reply held no decodable record; the raw reply is retained on the error).
func (e *Extractor) Extract(ctx context.Context, description string, referenceDate civil.Date) (*domain.TransactionRecord, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("Extract: empty description")
	}

	prompt := buildPrompt(description, referenceDate)

	reply, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	raw, err := extractJSON(reply)
	if err != nil {
		return nil, &ParseError{Err: err, RawReply: reply}
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("unmarshal JSON: %w", err), RawReply: reply}
	}

	record, err := decodeRecord(obj, referenceDate)
	if err != nil {
		return nil, &ParseError{Err: err, RawReply: reply}
	}

	return record, nil
}

// extractJSON returns the first top-level brace-delimited region of the
// reply: greedy, from the first '{' to the last '}'. Models occasionally wrap
// the object in prose or code fences; this strips all of it.
func extractJSON(reply string) (string, error) {
	start := strings.Index(reply, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in reply")
	}
	end := strings.LastIndex(reply, "}")
	if end < start {
		return "", fmt.Errorf("no JSON object found in reply")
	}
	return reply[start : end+1], nil
}

// decodeRecord validates the decoded model output field by field and builds
// the domain record. Values the model left null get the documented defaults:
// referenceDate for the date, zero for the amount, Other for the category.
func decodeRecord(obj map[string]interface{}, referenceDate civil.Date) (*domain.TransactionRecord, error) {
	dateStr, err := getOptionalStringField(obj, domain.KeyTransactionDate)
	if err != nil {
		return nil, err
	}
	transactionDate := referenceDate
	if dateStr != nil {
		transactionDate, err = civil.ParseDate(*dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", domain.KeyTransactionDate, *dateStr, err)
		}
	}

	bankName, err := getOptionalStringField(obj, domain.KeyBankName)
	if err != nil {
		return nil, err
	}
	accountType, err := getOptionalStringField(obj, domain.KeyAccountType)
	if err != nil {
		return nil, err
	}

	amount, err := getAmountField(obj, domain.KeyAmount)
	if err != nil {
		return nil, err
	}

	currency, err := getOptionalStringField(obj, domain.KeyCurrency)
	if err != nil {
		return nil, err
	}
	normalizedCurrency := ""
	if currency != nil {
		normalizedCurrency = domain.NormalizeCurrency(*currency)
	}

	category, err := getOptionalStringField(obj, domain.KeyCategory)
	if err != nil {
		return nil, err
	}
	normalizedCategory := domain.CategoryOther
	if category != nil {
		normalizedCategory = domain.NormalizeCategory(*category)
	}

	desc, err := getOptionalStringField(obj, domain.KeyDescription)
	if err != nil {
		return nil, err
	}
	description := ""
	if desc != nil {
		description = domain.TruncateDescription(*desc)
	}

	return &domain.TransactionRecord{
		TransactionDate: transactionDate,
		BankName:        bankName,
		AccountType:     accountType,
		Amount:          amount,
		Currency:        normalizedCurrency,
		Category:        normalizedCategory,
		Description:     description,
	}, nil
}

func getOptionalStringField(m map[string]interface{}, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" || strings.EqualFold(s, "null") {
			return nil, nil
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want string or null", key, v)
	}
}

// getAmountField accepts a JSON number or a numeric string; a missing or
// null amount defaults to zero.
func getAmountField(m map[string]interface{}, key string) (decimal.Decimal, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return decimal.Zero, nil
	}
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %q is not numeric: %q", key, val)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
