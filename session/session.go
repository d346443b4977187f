package session

import (
	"encoding/json"
	"errors"

	"agora/models"
)

const (
	AuthTokenKey   = "authToken"
	CurrentUserKey = "currentUser"
)

// Store keeps the signed-in user and bearer token in a Storage. It never
// validates the token; the backend is the only authority on that.
type Store struct {
	storage Storage
}

func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Token returns the stored bearer token.
func (s *Store) Token() (string, bool) {
	token, ok := s.storage.GetItem(AuthTokenKey)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// User returns the stored user. A corrupt record reads as absent.
func (s *Store) User() (*models.User, bool) {
	raw, ok := s.storage.GetItem(CurrentUserKey)
	if !ok || raw == "" {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// Authenticated reports whether both halves of a session are present.
func (s *Store) Authenticated() bool {
	_, hasToken := s.Token()
	_, hasUser := s.User()
	return hasToken && hasUser
}

// SetSession replaces the stored user and token. If the token write fails
// the previous user record is put back, so the stored pair stays whatever
// it was before the call.
func (s *Store) SetSession(user models.User, token string) error {
	if token == "" {
		return errors.New("session: empty auth token")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	prev, hadPrev := s.storage.GetItem(CurrentUserKey)
	if err := s.storage.SetItem(CurrentUserKey, string(raw)); err != nil {
		return err
	}
	if err := s.storage.SetItem(AuthTokenKey, token); err != nil {
		var undo error
		if hadPrev {
			undo = s.storage.SetItem(CurrentUserKey, prev)
		} else {
			undo = s.storage.RemoveItem(CurrentUserKey)
		}
		return errors.Join(err, undo)
	}
	return nil
}

func (s *Store) ClearSession() error {
	return errors.Join(
		s.storage.RemoveItem(AuthTokenKey),
		s.storage.RemoveItem(CurrentUserKey),
	)
}
