package server

import (
	"batepapo/domain"
	"batepapo/errors"
	"batepapo/services"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// userHeader carries the name of the participant making the request.
const userHeader = "User"

type Limits struct {
	MaxNameLength int
	MaxTextLength int
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	log        *slog.Logger
	presence   services.IPresenceService
	chat       services.IChatService
	monitoring *domain.Monitoring
	limits     Limits
	validate   *validator.Validate
	policy     *bluemonday.Policy
}

func NewHandler(log *slog.Logger, presence services.IPresenceService, chat services.IChatService,
	monitoring *domain.Monitoring, limits Limits) *Handler {
	return &Handler{
		log:        log,
		presence:   presence,
		chat:       chat,
		monitoring: monitoring,
		limits:     limits,
		validate:   validator.New(),
		policy:     bluemonday.StrictPolicy(),
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Debug("Response write failed", "error", err)
	}
}

// Error maps err to its status code and sends it as a JSON error body.
// Internal failures are logged and never leaked to the client.
func (h *Handler) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.MapToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	h.JSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON body into dst then sanitizes and validates it.
func (h *Handler) decode(r *http.Request, dst sanitizable) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body", errors.ErrInvalidPayload)
	}
	dst.sanitize(h.clean)
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrInvalidPayload, err.Error())
	}
	return nil
}

// clean strips any HTML and surrounding blanks from user input.
// Entities escaped by the policy are turned back into plain text.
func (h *Handler) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(s)))
}

func (h *Handler) checkLength(field, value string, limit int) error {
	if err := h.validate.Var(value, fmt.Sprintf("max=%d", limit)); err != nil {
		return fmt.Errorf("%w: %s longer than %d characters", errors.ErrInvalidPayload, field, limit)
	}
	return nil
}

// user extracts the acting participant from the request header.
func (h *Handler) user(r *http.Request) (string, error) {
	name := h.clean(r.Header.Get(userHeader))
	if name == "" {
		return "", errors.ErrMissingUser
	}
	return name, nil
}

type sanitizable interface {
	sanitize(clean func(string) string)
}
