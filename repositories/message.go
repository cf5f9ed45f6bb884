//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"batepapo/codec"
	"batepapo/domain"
	apperrors "batepapo/errors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	MessagePrefix      = "msg:"
	messageIndexPrefix = "msgid:"
)

type IMessageRepository interface {
	Append(message domain.Message) error
	Get(id uuid.UUID) (domain.Message, error)
	List(keep func(domain.Message) bool, limit int) ([]domain.Message, error)
	Update(message domain.Message) error
	Delete(id uuid.UUID) error
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

type diskMessage struct {
	ID        string `cbor:"id"`
	From      string `cbor:"from"`
	To        string `cbor:"to"`
	Text      string `cbor:"text"`
	Type      string `cbor:"type"`
	Time      string `cbor:"time"`
	CreatedAt int64  `cbor:"created_at"`
}

// Append persists a message.
// The key is formatted as "msg:{timestamp_padded}:{uuid}" so a prefix scan
// returns messages in chronological order, with the UUID separating messages
// created in the same nanosecond. A "msgid:{uuid}" entry points back to the key.
func (m MessageRepository) Append(message domain.Message) error {
	return wrapStoreError(m.db.Update(func(txn *badger.Txn) error {
		return putMessage(txn, message)
	}))
}

func (m MessageRepository) Get(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, _, err = getMessage(txn, id)
		return err
	})
	return message, wrapStoreError(err)
}

// List walks messages from newest to oldest, collecting those accepted by keep
// until limit is reached (limit <= 0 means no limit).
// The result is returned oldest first.
func (m MessageRepository) List(keep func(domain.Message) bool, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(MessagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(append([]byte(MessagePrefix), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", limit))
				break
			}
			var message domain.Message
			err := it.Item().Value(func(val []byte) error {
				var err error
				message, err = DecodeMessage(val)
				return err
			})
			if err != nil {
				return err
			}
			if keep == nil || keep(message) {
				messages = append(messages, message)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Update overwrites the stored message in place, keeping its position in time.
func (m MessageRepository) Update(message domain.Message) error {
	err := update(m.db, func(txn *badger.Txn) error {
		_, key, err := getMessage(txn, message.ID)
		if err != nil {
			return err
		}
		bytes, err := encodeMessage(message)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
	return wrapStoreError(err)
}

func (m MessageRepository) Delete(id uuid.UUID) error {
	err := update(m.db, func(txn *badger.Txn) error {
		_, key, err := getMessage(txn, id)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(messageIndexKey(id))
	})
	return wrapStoreError(err)
}

func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", MessagePrefix, message.CreatedAt.UnixNano(), message.ID))
}

func messageIndexKey(id uuid.UUID) []byte {
	return []byte(messageIndexPrefix + id.String())
}

// putMessage writes the message and its index entry inside an existing transaction,
// so presence changes can append their notices atomically.
func putMessage(txn *badger.Txn, message domain.Message) error {
	bytes, err := encodeMessage(message)
	if err != nil {
		return err
	}
	key := messageKey(message)
	if err = txn.Set(key, bytes); err != nil {
		return err
	}
	return txn.Set(messageIndexKey(message.ID), key)
}

func getMessage(txn *badger.Txn, id uuid.UUID) (domain.Message, []byte, error) {
	index, err := txn.Get(messageIndexKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, nil, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, nil, err
	}
	key, err := index.ValueCopy(nil)
	if err != nil {
		return domain.Message{}, nil, err
	}
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, nil, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, nil, err
	}
	var message domain.Message
	err = item.Value(func(val []byte) error {
		message, err = DecodeMessage(val)
		return err
	})
	return message, key, err
}

func encodeMessage(message domain.Message) ([]byte, error) {
	return codec.Marshal(diskMessage{
		ID:        message.ID.String(),
		From:      message.From,
		To:        message.To,
		Text:      message.Text,
		Type:      string(message.Kind),
		Time:      message.Time,
		CreatedAt: message.CreatedAt.UnixNano(),
	})
}

// DecodeMessage reads a stored message document.
func DecodeMessage(val []byte) (domain.Message, error) {
	var disk diskMessage
	if err := codec.Unmarshal(val, &disk); err != nil {
		return domain.Message{}, err
	}
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        id,
		From:      disk.From,
		To:        disk.To,
		Text:      disk.Text,
		Kind:      domain.Kind(disk.Type),
		Time:      disk.Time,
		CreatedAt: time.Unix(0, disk.CreatedAt).UTC(),
	}, nil
}
