// Package session keeps the signed-in user of a device in durable
// key-value storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"catalyst/internal/models"
)

// StorageKey is the fixed application-scoped key of the session record.
const StorageKey = "catalyst_user"

// Store is the session API every page controller depends on.
type Store interface {
	// Load returns the persisted user or models.ErrMissingSession.
	Load() (models.User, error)
	// Save persists u, replacing any prior value.
	Save(u models.User) error
	// Clear removes the persisted user.
	Clear() error
	// UpdateAvatar replaces the avatar of the persisted user.
	// It fails with models.ErrMissingSession when nobody is signed in.
	UpdateAvatar(dataURI string) error
}

// KeyValue is durable storage partitioned by device.
type KeyValue interface {
	GetItem(deviceID, key string) ([]byte, error)
	SetItem(deviceID, key string, value []byte) error
	RemoveItem(deviceID, key string) error
}

// Provider hands out the Store of a device.
type Provider struct {
	kv KeyValue
}

func NewProvider(kv KeyValue) *Provider {
	return &Provider{kv: kv}
}

func (p *Provider) For(deviceID string) Store {
	return &LocalStore{kv: p.kv, deviceID: deviceID}
}

// LocalStore stores the user as a JSON object under StorageKey.
type LocalStore struct {
	kv       KeyValue
	deviceID string
}

func (s *LocalStore) Load() (models.User, error) {
	data, err := s.kv.GetItem(s.deviceID, StorageKey)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, models.ErrMissingSession
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to read session: %w", err)
	}

	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return models.User{}, fmt.Errorf("failed to decode session: %w", err)
	}
	if u.Email == "" {
		return models.User{}, models.ErrMissingSession
	}
	return u, nil
}

func (s *LocalStore) Save(u models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.kv.SetItem(s.deviceID, StorageKey, data)
}

func (s *LocalStore) Clear() error {
	return s.kv.RemoveItem(s.deviceID, StorageKey)
}

func (s *LocalStore) UpdateAvatar(dataURI string) error {
	u, err := s.Load()
	if err != nil {
		return err
	}
	u.Avatar = dataURI
	return s.Save(u)
}
