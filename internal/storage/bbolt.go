package storage

import (
	"errors"
	"fmt"
	"time"

	"catalyst/internal/models"

	"go.etcd.io/bbolt"
)

var (
	bucketDevices      = []byte("devices")
	bucketLocalStorage = []byte("local_storage")
)

// Device describes a browser known to the server.
type Device struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
}

type BboltStorage struct {
	db *bbolt.DB
}

func NewBboltStorage(path string) (*BboltStorage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDevices, bucketLocalStorage} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BboltStorage{db: db}, nil
}

func (s *BboltStorage) Close() error {
	return s.db.Close()
}

// GetItem returns a copy of the value stored under key for the device,
// or models.ErrNotFound.
func (s *BboltStorage) GetItem(deviceID, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		deviceBucket := tx.Bucket(bucketLocalStorage).Bucket([]byte(deviceID))
		if deviceBucket == nil {
			return models.ErrNotFound
		}
		data := deviceBucket.Get([]byte(key))
		if data == nil {
			return models.ErrNotFound
		}
		// bbolt memory is only valid inside the transaction.
		value = append([]byte(nil), data...)
		return nil
	})
	return value, err
}

// SetItem stores value under key for the device, replacing any prior value.
func (s *BboltStorage) SetItem(deviceID, key string, value []byte) error {
	if deviceID == "" {
		return errors.New("device id is required")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		deviceBucket, err := tx.Bucket(bucketLocalStorage).CreateBucketIfNotExists([]byte(deviceID))
		if err != nil {
			return fmt.Errorf("failed to create device bucket: %w", err)
		}
		return deviceBucket.Put([]byte(key), value)
	})
}

// RemoveItem deletes key for the device. Removing a missing key is not an error.
func (s *BboltStorage) RemoveItem(deviceID, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		deviceBucket := tx.Bucket(bucketLocalStorage).Bucket([]byte(deviceID))
		if deviceBucket == nil {
			return nil
		}
		return deviceBucket.Delete([]byte(key))
	})
}

// TouchDevice registers the device on first sight and refreshes LastSeen.
func (s *BboltStorage) TouchDevice(deviceID string, now time.Time) (Device, error) {
	var dbDevice DBDevice
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDevices)
		if data := b.Get([]byte(deviceID)); data != nil {
			if err := dbDevice.UnmarshalBinary(data); err != nil {
				return fmt.Errorf("failed to unmarshal device: %w", err)
			}
		} else {
			dbDevice = DBDevice{ID: deviceID, CreatedAt: now.Unix()}
		}
		dbDevice.LastSeen = now.Unix()

		data, err := dbDevice.MarshalBinary()
		if err != nil {
			return err
		}
		return b.Put(dbDevice.Key(), data)
	})
	if err != nil {
		return Device{}, err
	}
	return toDevice(dbDevice), nil
}

func (s *BboltStorage) GetDevice(deviceID string) (Device, error) {
	var dbDevice DBDevice
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDevices).Get([]byte(deviceID))
		if data == nil {
			return models.ErrNotFound
		}
		return dbDevice.UnmarshalBinary(data)
	})
	if err != nil {
		return Device{}, err
	}
	return toDevice(dbDevice), nil
}

func (s *BboltStorage) ListDevices() ([]Device, error) {
	var devices []Device
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDevices).ForEach(func(k, v []byte) error {
			var dbDevice DBDevice
			if err := dbDevice.UnmarshalBinary(v); err != nil {
				return err
			}
			devices = append(devices, toDevice(dbDevice))
			return nil
		})
	})
	return devices, err
}

func toDevice(d DBDevice) Device {
	return Device{
		ID:        d.ID,
		CreatedAt: time.Unix(d.CreatedAt, 0),
		LastSeen:  time.Unix(d.LastSeen, 0),
	}
}
