package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/claude/fithome/internal/storage"
)

// MaxDisplayNameLength bounds the display name in runes.
const MaxDisplayNameLength = 64

// ErrInvalidDisplayName is returned for empty or overlong display names.
var ErrInvalidDisplayName = errors.New("invalid display name")

// Store is the persistence the profile service needs.
type Store interface {
	GetUser(ctx context.Context, userID int) (*storage.User, error)
	UpdateDisplayName(ctx context.Context, userID int, displayName string) error
}

// Service reads and updates user profiles and notifies subscribers of changes.
type Service struct {
	store    Store
	notifier *Notifier
}

// NewService creates a profile Service.
func NewService(store Store, notifier *Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Notifier returns the hub that screens subscribe to.
func (s *Service) Notifier() *Notifier {
	return s.notifier
}

// Get returns the stored user and primes the notifier with its display name.
func (s *Service) Get(ctx context.Context, userID int) (*storage.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(userID, u.DisplayName)
	return u, nil
}

// UpdateDisplayName validates, persists and publishes a new display name.
func (s *Service) UpdateDisplayName(ctx context.Context, userID int, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidDisplayName)
	}
	if utf8.RuneCountInString(displayName) > MaxDisplayNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidDisplayName, MaxDisplayNameLength)
	}
	if err := s.store.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return err
	}
	s.notifier.Publish(userID, displayName)
	return nil
}
