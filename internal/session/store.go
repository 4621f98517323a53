// Package session keeps track of who is logged in: the persisted session
// record and the controller that creates and destroys it.
package session

import (
	"errors"
	"io"
	"log"
	"strings"

	"dtask/internal/service"
	"dtask/internal/storage"
)

// UserKey is the storage key of the session record.
const UserKey = "user"

// Store persists the single active session.
// Presence of a record is the only signal that the user is logged in.
type Store struct {
	kv  *storage.Store
	log *log.Logger
}

// NewStore returns a session store on kv. logger may be nil.
func NewStore(kv *storage.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{kv: kv, log: logger}
}

// Save replaces any stored session.
func (s *Store) Save(sess service.Session) error {
	if strings.TrimSpace(sess.Email) == "" {
		return errors.New("session without email")
	}
	return s.kv.PutJSON(UserKey, sess)
}

// Load returns the stored session. Any read or parse problem means
// "no session"; it is logged, never returned.
func (s *Store) Load() (service.Session, bool) {
	var sess service.Session
	err := s.kv.GetJSON(UserKey, &sess)
	if errors.Is(err, storage.ErrNotFound) {
		return service.Session{}, false
	}
	if err != nil {
		s.log.Printf("ignoring stored session: %v", err)
		return service.Session{}, false
	}
	if strings.TrimSpace(sess.Email) == "" {
		s.log.Printf("ignoring stored session without email")
		return service.Session{}, false
	}
	return sess, true
}

// Clear removes the stored session.
func (s *Store) Clear() error {
	return s.kv.Delete(UserKey)
}
