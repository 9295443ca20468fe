package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/rajpandit/expense-tracker/internal/api/middleware"
	"github.com/rajpandit/expense-tracker/internal/domain"
	"github.com/rajpandit/expense-tracker/internal/extraction"
	"github.com/rajpandit/expense-tracker/internal/store"
)

// RecordStore is the slice of the store the transaction handlers need.
type RecordStore interface {
	Insert(ctx context.Context, rec *domain.TransactionRecord) (store.InsertResult, error)
	Fetch(ctx context.Context, filter store.Filter) ([]*domain.TransactionRecord, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

// Extractor turns a description into a structured record.
type Extractor interface {
	Extract(ctx context.Context, description string, referenceDate civil.Date) (*domain.TransactionRecord, error)
}

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store     RecordStore
	extractor Extractor
	log       zerolog.Logger
	now       func() time.Time
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(recordStore RecordStore, extractor Extractor, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store:     recordStore,
		extractor: extractor,
		log:       log,
		now:       time.Now,
	}
}

type parseRequest struct {
	Description string `json:"description"`
}

// Parse handles POST /api/transactions/parse. It extracts a structured
// record from the description without persisting anything.
func (h *TransactionsHandler) Parse(w http.ResponseWriter, r *http.Request) {
	record, ok := h.extract(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, record)
}

// Create handles POST /api/transactions. It extracts a record, attaches the
// authenticated user and today's date, and persists it with duplicate
// suppression.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	record, ok := h.extract(w, r)
	if !ok {
		return
	}

	email, _ := middleware.UserEmail(r.Context())
	record.UserEmail = email
	today := civil.DateOf(h.now())
	record.CreatedDate = &today

	result, err := h.store.Insert(r.Context(), record)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to insert transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	status := http.StatusCreated
	if !result.Saved {
		status = http.StatusOK
	}
	middleware.WriteJSON(w, status, map[string]interface{}{
		"saved":   result.Saved,
		"message": result.Message,
		"record":  record,
	})
}

func (h *TransactionsHandler) extract(w http.ResponseWriter, r *http.Request) (*domain.TransactionRecord, bool) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "description is required")
		return nil, false
	}

	record, err := h.extractor.Extract(r.Context(), req.Description, civil.DateOf(h.now()))
	if err != nil {
		var svcErr *extraction.ServiceError
		var parseErr *extraction.ParseError
		switch {
		case errors.As(err, &svcErr):
			h.log.Error().Err(err).Msg("Completion service failed")
			middleware.WriteError(w, http.StatusBadGateway, "Completion service unavailable")
		case errors.As(err, &parseErr):
			h.log.Error().Err(err).Str("raw_reply", parseErr.RawReply).Msg("Model reply could not be parsed")
			middleware.WriteError(w, http.StatusUnprocessableEntity, "Could not extract a transaction from the description")
		default:
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return nil, false
	}

	return record, true
}

// List handles GET /api/transactions. The range comes either from
// ?filter=<preset> or from explicit ?start_date=&end_date= bounds; with
// neither, all of the user's records are returned, newest first.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.UserEmail(r.Context())
	query := r.URL.Query()

	filter := store.Filter{UserEmail: email}

	if preset := query.Get("filter"); preset != "" {
		var err error
		filter, err = store.FilterForPreset(store.Preset(preset), h.now(), email)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Unknown filter preset")
			return
		}
	} else {
		if s := query.Get("start_date"); s != "" {
			d, err := civil.ParseDate(s)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, "Invalid start_date format")
				return
			}
			filter.Start = &d
		}
		if s := query.Get("end_date"); s != "" {
			d, err := civil.ParseDate(s)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, "Invalid end_date format")
				return
			}
			filter.End = &d
		}
	}

	records, err := h.store.Fetch(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	if records == nil {
		records = []*domain.TransactionRecord{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": records,
		"count":        len(records),
	})
}

type deleteRequest struct {
	IDs []int64 `json:"ids"`
}

// Delete handles DELETE /api/transactions. The batch is all-or-nothing.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "ids is required")
		return
	}

	deleted, err := h.store.DeleteByIDs(r.Context(), req.IDs)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to delete transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
	})
}

// AuthService is the slice of the auth service the auth handlers need.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) error
	SignIn(ctx context.Context, email, password string) (string, error)
}

// AuthHandler handles signup and signin endpoints.
type AuthHandler struct {
	auth AuthService
	log  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.auth.SignUp(r.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			middleware.WriteError(w, http.StatusConflict, "User already exists")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
