package store

import (
	"errors"
	"fmt"

	"postbrowser/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserStore implements UserStore using BadgerDB
type BadgerUserStore struct {
	db *badger.DB
}

// NewBadgerUserStore creates a new BadgerUserStore
func NewBadgerUserStore(db *badger.DB) *BadgerUserStore {
	return &BadgerUserStore{db: db}
}

// Create stores a user. A zero ID is replaced by the next sequence value.
func (s *BadgerUserStore) Create(user *models.User) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if user.ID == 0 {
			id, err := getNextID(txn, UserSeqKey)
			if err != nil {
				return err
			}
			user.ID = id
		} else if err := bumpSequence(txn, UserSeqKey, user.ID); err != nil {
			return err
		}

		data, err := marshalEntity(user)
		if err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), data)
	})
}

// GetByID retrieves a user by ID
func (s *BadgerUserStore) GetByID(id int) (*models.User, error) {
	var user models.User

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &user)
		})
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves every user ordered by ID
func (s *BadgerUserStore) List() ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(UserKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user models.User
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &user)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal user: %w", err)
			}
			users = append(users, &user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
