package server

import (
	"batepapo/domain"
	"net/http"

	"github.com/samber/lo"
)

type JoinRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *JoinRequest) sanitize(clean func(string) string) {
	r.Name = clean(r.Name)
}

type ParticipantResponse struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

func toParticipantResponse(p domain.Participant) ParticipantResponse {
	return ParticipantResponse{Name: p.Name, LastStatus: p.LastSeen.UnixMilli()}
}

// Join handles POST /participants.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := h.decode(r, &req); err != nil {
		h.Error(w, r, err)
		return
	}
	if err := h.checkLength("name", req.Name, h.limits.MaxNameLength); err != nil {
		h.Error(w, r, err)
		return
	}
	participant, err := h.presence.Join(r.Context(), req.Name)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusCreated, toParticipantResponse(participant))
}

// ListParticipants handles GET /participants.
func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.presence.ListParticipants(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, lo.Map(participants, func(p domain.Participant, _ int) ParticipantResponse {
		return toParticipantResponse(p)
	}))
}
