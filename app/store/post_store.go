package store

import (
	"fmt"

	"postbrowser/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostStore implements PostStore using BadgerDB
type BadgerPostStore struct {
	db *badger.DB
}

// NewBadgerPostStore creates a new BadgerPostStore
func NewBadgerPostStore(db *badger.DB) *BadgerPostStore {
	return &BadgerPostStore{db: db}
}

// Create stores a post under its author so ListByUser is a prefix scan.
func (s *BadgerPostStore) Create(post *models.Post) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if post.ID == 0 {
			id, err := getNextID(txn, PostSeqKey)
			if err != nil {
				return err
			}
			post.ID = id
		} else if err := bumpSequence(txn, PostSeqKey, post.ID); err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.UserID, post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (s *BadgerPostStore) GetByID(id int) (*models.Post, error) {
	var post models.Post

	err := s.db.View(func(txn *badger.Txn) error {
		key, err := findKey(txn, []byte(PostKeyPrefix), id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByUser retrieves all posts written by a user
func (s *BadgerPostStore) ListByUser(userID int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := postPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
