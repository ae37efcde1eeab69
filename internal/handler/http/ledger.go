package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/ledger"
	"github.com/chronotrack/chronotrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LedgerHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateSyncStatus(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.Service
}

func NewLedgerHandler(ledgerService ledger.Service) LedgerHandler {
	return &ledgerHandlerImpl{
		ledgerService: ledgerService,
	}
}

func listFilterFromQuery(r *http.Request) ledger.ListFilter {
	q := r.URL.Query()

	filter := ledger.ListFilter{
		Username: q.Get("username"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	return filter
}

// ListMine implements LedgerHandler. The username filter is forced to the
// caller regardless of query parameters.
func (h *ledgerHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	username, _, err := callerIdentity(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := listFilterFromQuery(r)
	filter.Username = username

	result, err := h.ledgerService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// List implements LedgerHandler. Admin only.
func (h *ledgerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)

	result, err := h.ledgerService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// UpdateSyncStatus implements LedgerHandler. Admin only.
func (h *ledgerHandlerImpl) UpdateSyncStatus(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		response.BadRequest(w, "Ledger entry ID is required", nil)
		return
	}

	var req ledger.UpdateSyncStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode sync status request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.UpdateSyncStatus(r.Context(), entryID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sync status updated", result)
}
