package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
	"github.com/chronotrack/chronotrack-backend-go/internal/handler/http/response"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type SessionHandler interface {
	Command(w http.ResponseWriter, r *http.Request)
	GetCurrent(w http.ResponseWriter, r *http.Request)
	ResolutionStatus(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	ContinuationPoints(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	sessionService worksession.SessionService
	pointRepo      continuation.Repository
	clock          func() time.Time
}

// NewSessionHandler builds the session handler. The clock must match the
// executor's so date defaults land on the same calendar day; nil falls back
// to time.Now.
func NewSessionHandler(sessionService worksession.SessionService, pointRepo continuation.Repository, clock func() time.Time) SessionHandler {
	if clock == nil {
		clock = time.Now
	}
	return &sessionHandlerImpl{
		sessionService: sessionService,
		pointRepo:      pointRepo,
		clock:          clock,
	}
}

// callerIdentity pulls the authenticated user out of the verified token.
func callerIdentity(r *http.Request) (username string, userID string, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", "", fmt.Errorf("username claim is missing or invalid")
	}

	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return username, userID, nil
}

// Command implements SessionHandler.
func (h *sessionHandlerImpl) Command(w http.ResponseWriter, r *http.Request) {
	username, userID, err := callerIdentity(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req worksession.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode command request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Username = username
	req.UserID = userID

	result, err := h.sessionService.Execute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("Operation %s successful", req.Operation), result)
}

// GetCurrent implements SessionHandler.
func (h *sessionHandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	username, userID, err := callerIdentity(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.sessionService.GetCurrentSession(r.Context(), username, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ResolutionStatus implements SessionHandler.
func (h *sessionHandlerImpl) ResolutionStatus(w http.ResponseWriter, r *http.Request) {
	username, _, err := callerIdentity(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.sessionService.ResolutionStatus(r.Context(), username)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Resolve implements SessionHandler.
func (h *sessionHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	username, userID, err := callerIdentity(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req worksession.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode resolve request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Username = username
	req.UserID = userID

	result, err := h.sessionService.Resolve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !result.Applied {
		response.SuccessWithMessage(w, "No session needed resolution", result)
		return
	}
	response.SuccessWithMessage(w, "Session resolved", result)
}

// pointQueryDate resolves the requested date to midnight in the clock's
// location. Continuation points are keyed by local midnight, so the default
// must not float to a UTC day boundary.
func pointQueryDate(query string, now time.Time) (time.Time, bool) {
	if query == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	}
	parsed, ok := validator.IsValidDate(query)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location()), true
}

// ContinuationPoints implements SessionHandler. Read-only diagnostics view of
// the unresolved checkpoints for a date (default today).
func (h *sessionHandlerImpl) ContinuationPoints(w http.ResponseWriter, r *http.Request) {
	username, _, err := callerIdentity(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	date, ok := pointQueryDate(r.URL.Query().Get("date"), h.clock())
	if !ok {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}

	points, err := h.pointRepo.ActivePoints(r.Context(), username, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	type pointResponse struct {
		ID        string `json:"id"`
		Date      string `json:"date"`
		Timestamp string `json:"timestamp"`
		Kind      string `json:"kind"`
	}

	results := make([]pointResponse, 0, len(points))
	for _, p := range points {
		results = append(results, pointResponse{
			ID:        p.ID,
			Date:      p.Date.Format("2006-01-02"),
			Timestamp: p.Timestamp.Format(time.RFC3339),
			Kind:      string(p.Kind),
		})
	}

	response.Success(w, results)
}
