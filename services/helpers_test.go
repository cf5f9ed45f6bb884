package services

import (
	"batepapo/domain"
	"batepapo/repositories"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests place events at exact millisecond offsets.
type fakeClock struct {
	mu sync.Mutex
	at time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{at: time.UnixMilli(0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *fakeClock) SetMillis(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = time.UnixMilli(ms)
}

type fixture struct {
	clock        *fakeClock
	participants repositories.ParticipantRepository
	messages     repositories.MessageRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return fixture{
		clock:        newFakeClock(),
		participants: repositories.NewParticipantRepository(db, slog.Default()),
		messages:     repositories.NewMessageRepository(db, slog.Default()),
	}
}

func (f fixture) statusMessages(t *testing.T, from, text string) []domain.Message {
	t.Helper()
	found, err := f.messages.List(func(m domain.Message) bool {
		return m.Kind == domain.KindStatus && m.From == from && m.Text == text
	}, 0)
	require.NoError(t, err)
	return found
}
