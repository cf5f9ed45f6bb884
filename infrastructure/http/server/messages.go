package server

import (
	"batepapo/domain"
	"batepapo/errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type MessageRequest struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"text" validate:"required"`
	Type string `json:"type" validate:"required,oneof=message private_message"`
}

func (r *MessageRequest) sanitize(clean func(string) string) {
	r.To = clean(r.To)
	r.Text = clean(r.Text)
	r.Type = clean(r.Type)
}

type MessageResponse struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

func toMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:   m.ID.String(),
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Type: string(m.Kind),
		Time: m.Time,
	}
}

// PostMessage handles POST /messages.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	user, req, err := h.messageInput(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	message, err := h.chat.PostMessage(r.Context(), domain.PostMessageCommand{
		From: user,
		To:   req.To,
		Text: req.Text,
		Kind: domain.Kind(req.Type),
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusCreated, toMessageResponse(message))
}

// ListMessages handles GET /messages?limit=N.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, err := h.user(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.Error(w, r, fmt.Errorf("%w: %q", errors.ErrInvalidLimit, raw))
			return
		}
	}
	messages, err := h.chat.ListMessages(r.Context(), user, limit)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) MessageResponse {
		return toMessageResponse(m)
	}))
}

// UpdateMessage handles PUT /messages/{id}.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	user, req, err := h.messageInput(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	message, err := h.chat.UpdateMessage(r.Context(), domain.UpdateMessageCommand{
		ID:     id,
		Author: user,
		To:     req.To,
		Text:   req.Text,
		Kind:   domain.Kind(req.Type),
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, toMessageResponse(message))
}

// DeleteMessage handles DELETE /messages/{id}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	user, err := h.user(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if err = h.chat.DeleteMessage(r.Context(), user, id); err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, nil)
}

func (h *Handler) messageInput(r *http.Request) (string, MessageRequest, error) {
	var req MessageRequest
	user, err := h.user(r)
	if err != nil {
		return "", req, err
	}
	if err = h.decode(r, &req); err != nil {
		return "", req, err
	}
	if err = h.checkLength("text", req.Text, h.limits.MaxTextLength); err != nil {
		return "", req, err
	}
	return user, req, nil
}

// messageID parses the {id} path parameter. An id that is not a UUID cannot exist.
func messageID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.ErrMessageNotFound
	}
	return id, nil
}
