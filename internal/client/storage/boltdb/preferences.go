package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// SetPreference saves a client preference; empty value removes the key
func (s *Storage) SetPreference(ctx context.Context, key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPreferences)
		if bucket == nil {
			return fmt.Errorf("preferences bucket not found")
		}

		if value == "" {
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to delete preference %s: %w", key, err)
			}
			return nil
		}

		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
		return nil
	})
	return closedErr(err)
}

// GetPreference returns a client preference or "" if it is not set
func (s *Storage) GetPreference(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPreferences)
		if bucket == nil {
			return fmt.Errorf("preferences bucket not found")
		}

		// bolt отдает срез только на время транзакции
		if data := bucket.Get([]byte(key)); data != nil {
			value = string(data)
		}
		return nil
	})
	if err != nil {
		return "", closedErr(err)
	}

	return value, nil
}
