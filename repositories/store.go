package repositories

import (
	apperrors "batepapo/errors"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how many times a read-modify-write is replayed
// after badger reports a concurrent commit on the same keys.
const maxConflictRetries = 3

// update runs fn in a read-write transaction, replaying it on conflict.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// wrapStoreError keeps domain errors as they are and tags everything else as a store failure.
func wrapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrParticipantNotFound),
		errors.Is(err, apperrors.ErrParticipantAlreadyExists),
		errors.Is(err, apperrors.ErrMessageNotFound):
		return err
	default:
		return fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}
}
