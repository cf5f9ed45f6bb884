package server

import (
	"net/http"
)

// Status handles POST /status, the heartbeat keeping a participant in the room.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	user, err := h.user(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if _, err = h.presence.Touch(r.Context(), user); err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, nil)
}
