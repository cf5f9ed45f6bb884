package server

import (
	"batepapo/domain"
	"batepapo/repositories"
	"batepapo/services"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	participants := repositories.NewParticipantRepository(db, log)
	messages := repositories.NewMessageRepository(db, log)
	presence := services.NewPresenceService(log, participants, 10*time.Second, 2, nil)
	chat := services.NewChatService(log, participants, messages, nil, nil)
	h := NewHandler(log, presence, chat, domain.NewMonitoring(), Limits{MaxNameLength: 10, MaxTextLength: 20})
	return NewRouter(log, h, 1024)
}

func do(t *testing.T, router http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJoin(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"created", JoinRequest{Name: "Ana"}, http.StatusCreated},
		{"duplicate", JoinRequest{Name: "Ana"}, http.StatusConflict},
		{"duplicate once html is stripped", JoinRequest{Name: "<b>Ana</b>"}, http.StatusConflict},
		{"reserved", JoinRequest{Name: domain.Broadcast}, http.StatusUnprocessableEntity},
		{"blank", JoinRequest{Name: "   "}, http.StatusUnprocessableEntity},
		{"too long", JoinRequest{Name: "Bartolomeu Dias"}, http.StatusUnprocessableEntity},
		{"malformed", "not an object", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/participants", "", tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestListParticipants(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(t)
	req.Equal(http.StatusCreated, do(t, router, http.MethodPost, "/participants", "", JoinRequest{Name: "Ana"}).Code)

	rec := do(t, router, http.MethodGet, "/participants", "", nil)

	req.Equal(http.StatusOK, rec.Code)
	var got []ParticipantResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	req.Len(got, 1)
	req.Equal("Ana", got[0].Name)
	req.NotZero(got[0].LastStatus)
}

func TestMessages(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(t)
	for _, name := range []string{"Ana", "Bruno"} {
		req.Equal(http.StatusCreated, do(t, router, http.MethodPost, "/participants", "", JoinRequest{Name: name}).Code)
	}
	public := MessageRequest{To: domain.Broadcast, Text: "oi gente", Type: "message"}

	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodPost, "/messages", "", public).Code)
	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodPost, "/messages", "Ghost", public).Code)
	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodPost, "/messages", "Ana",
		MessageRequest{To: domain.Broadcast, Text: "hi", Type: "status"}).Code)
	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodPost, "/messages", "Ana",
		MessageRequest{To: domain.Broadcast, Text: strings.Repeat("a", 21), Type: "message"}).Code)

	rec := do(t, router, http.MethodPost, "/messages", "Ana", public)
	req.Equal(http.StatusCreated, rec.Code)
	var posted MessageResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &posted))
	req.Equal("Ana", posted.From)
	req.Equal("oi gente", posted.Text)

	rec = do(t, router, http.MethodGet, "/messages?limit=1", "Bruno", nil)
	req.Equal(http.StatusOK, rec.Code)
	var listed []MessageResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &listed))
	req.Len(listed, 1)
	req.Equal(posted.ID, listed[0].ID)

	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodGet, "/messages?limit=abc", "Bruno", nil).Code)
	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodGet, "/messages?limit=0", "Bruno", nil).Code)
	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodGet, "/messages", "", nil).Code)

	edit := MessageRequest{To: "Bruno", Text: "psiu", Type: "private_message"}
	req.Equal(http.StatusUnauthorized, do(t, router, http.MethodPut, "/messages/"+posted.ID, "Bruno", edit).Code)
	req.Equal(http.StatusOK, do(t, router, http.MethodPut, "/messages/"+posted.ID, "Ana", edit).Code)
	req.Equal(http.StatusNotFound, do(t, router, http.MethodPut, "/messages/not-a-uuid", "Ana", edit).Code)

	req.Equal(http.StatusUnauthorized, do(t, router, http.MethodDelete, "/messages/"+posted.ID, "Bruno", nil).Code)
	req.Equal(http.StatusOK, do(t, router, http.MethodDelete, "/messages/"+posted.ID, "Ana", nil).Code)
	req.Equal(http.StatusNotFound, do(t, router, http.MethodDelete, "/messages/"+posted.ID, "Ana", nil).Code)
}

func TestStatus(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(t)
	req.Equal(http.StatusCreated, do(t, router, http.MethodPost, "/participants", "", JoinRequest{Name: "Ana"}).Code)

	req.Equal(http.StatusOK, do(t, router, http.MethodPost, "/status", "Ana", nil).Code)
	req.Equal(http.StatusNotFound, do(t, router, http.MethodPost, "/status", "Bruno", nil).Code)
	req.Equal(http.StatusUnprocessableEntity, do(t, router, http.MethodPost, "/status", "", nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(t)
	req.Equal(http.StatusCreated, do(t, router, http.MethodPost, "/participants", "", JoinRequest{Name: "Ana"}).Code)

	rec := do(t, router, http.MethodGet, "/health", "", nil)
	req.Equal(http.StatusOK, rec.Code)
	var health HealthResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &health))
	req.Equal("ALIVE", health.Status)
	req.Equal(1, health.Participants)

	rec = do(t, router, http.MethodGet, "/metrics", "", nil)
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "batepapo_http_requests_total")
}

func TestMaxBodySize(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/participants", "", JoinRequest{Name: strings.Repeat("a", 2048)})

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
