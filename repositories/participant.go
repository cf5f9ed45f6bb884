//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repositories

import (
	"batepapo/codec"
	"batepapo/domain"
	apperrors "batepapo/errors"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const ParticipantPrefix = "participant:"

type IParticipantRepository interface {
	Create(participant domain.Participant, notice domain.Message) error
	Find(name string) (domain.Participant, error)
	UpdateLastSeen(name string, at time.Time) (time.Time, error)
	Delete(name string) error
	Evict(name string, seen time.Time, notice domain.Message) (bool, error)
	List() ([]domain.Participant, error)
}

type ParticipantRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewParticipantRepository(db *badger.DB, log *slog.Logger) ParticipantRepository {
	return ParticipantRepository{db: db, log: log}
}

// diskParticipant is the stored document. LastStatus is epoch milliseconds.
type diskParticipant struct {
	Name       string `cbor:"name"`
	LastStatus int64  `cbor:"last_status"`
}

// Create inserts the participant and appends its join notice in one transaction.
// Both writes become visible together or not at all.
func (r ParticipantRepository) Create(participant domain.Participant, notice domain.Message) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(participantKey(participant.Name))
		switch {
		case err == nil:
			return apperrors.ErrParticipantAlreadyExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err = setParticipant(txn, participant); err != nil {
			return err
		}
		return putMessage(txn, notice)
	})
	// Another join of the same name committed between our read and our commit
	if errors.Is(err, badger.ErrConflict) {
		return apperrors.ErrParticipantAlreadyExists
	}
	return wrapStoreError(err)
}

func (r ParticipantRepository) Find(name string) (domain.Participant, error) {
	var participant domain.Participant
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		participant, err = getParticipant(txn, name)
		return err
	})
	return participant, wrapStoreError(err)
}

// UpdateLastSeen refreshes the heartbeat and returns the value actually stored,
// which is always strictly greater than the previous one.
func (r ParticipantRepository) UpdateLastSeen(name string, at time.Time) (time.Time, error) {
	var stored time.Time
	err := update(r.db, func(txn *badger.Txn) error {
		participant, err := getParticipant(txn, name)
		if err != nil {
			return err
		}
		participant.LastSeen = domain.NextLastSeen(participant.LastSeen, at)
		stored = participant.LastSeen
		return setParticipant(txn, participant)
	})
	return stored, wrapStoreError(err)
}

func (r ParticipantRepository) Delete(name string) error {
	err := update(r.db, func(txn *badger.Txn) error {
		if _, err := getParticipant(txn, name); err != nil {
			return err
		}
		return txn.Delete(participantKey(name))
	})
	return wrapStoreError(err)
}

// Evict deletes the participant and appends its departure notice atomically,
// but only if its heartbeat has not moved past seen.
// It reports false without error when the participant is already gone,
// was touched after seen, or a concurrent writer won the transaction.
func (r ParticipantRepository) Evict(name string, seen time.Time, notice domain.Message) (bool, error) {
	evicted := false
	err := r.db.Update(func(txn *badger.Txn) error {
		participant, err := getParticipant(txn, name)
		if errors.Is(err, apperrors.ErrParticipantNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if participant.LastSeen.After(seen) {
			return nil
		}
		if err = txn.Delete(participantKey(name)); err != nil {
			return err
		}
		if err = putMessage(txn, notice); err != nil {
			return err
		}
		evicted = true
		return nil
	})
	if errors.Is(err, badger.ErrConflict) {
		r.log.Debug("Eviction lost a race, leaving it to the next sweep", "name", name)
		return false, nil
	}
	if err != nil {
		return false, wrapStoreError(err)
	}
	return evicted, nil
}

// List returns every participant, ordered by name.
func (r ParticipantRepository) List() ([]domain.Participant, error) {
	var participants []domain.Participant
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(ParticipantPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var participant domain.Participant
			err := it.Item().Value(func(val []byte) error {
				var err error
				participant, err = DecodeParticipant(val)
				return err
			})
			if err != nil {
				return err
			}
			participants = append(participants, participant)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return participants, nil
}

func participantKey(name string) []byte {
	return []byte(ParticipantPrefix + name)
}

func getParticipant(txn *badger.Txn, name string) (domain.Participant, error) {
	item, err := txn.Get(participantKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Participant{}, apperrors.ErrParticipantNotFound
	}
	if err != nil {
		return domain.Participant{}, err
	}
	var participant domain.Participant
	err = item.Value(func(val []byte) error {
		participant, err = DecodeParticipant(val)
		return err
	})
	return participant, err
}

func setParticipant(txn *badger.Txn, participant domain.Participant) error {
	bytes, err := codec.Marshal(diskParticipant{
		Name:       participant.Name,
		LastStatus: participant.LastSeen.UnixMilli(),
	})
	if err != nil {
		return err
	}
	return txn.Set(participantKey(participant.Name), bytes)
}

// DecodeParticipant reads a stored participant document.
func DecodeParticipant(val []byte) (domain.Participant, error) {
	var disk diskParticipant
	if err := codec.Unmarshal(val, &disk); err != nil {
		return domain.Participant{}, err
	}
	return domain.Participant{
		Name:     disk.Name,
		LastSeen: time.UnixMilli(disk.LastStatus),
	}, nil
}
