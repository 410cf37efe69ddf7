package store

import (
	"fmt"

	"postbrowser/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentStore implements CommentStore using BadgerDB
type BadgerCommentStore struct {
	db *badger.DB
}

// NewBadgerCommentStore creates a new BadgerCommentStore
func NewBadgerCommentStore(db *badger.DB) *BadgerCommentStore {
	return &BadgerCommentStore{db: db}
}

// Create creates a new comment
func (s *BadgerCommentStore) Create(comment *models.Comment) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if comment.ID == 0 {
			id, err := getNextID(txn, CommentSeqKey)
			if err != nil {
				return err
			}
			comment.ID = id
		} else if err := bumpSequence(txn, CommentSeqKey, comment.ID); err != nil {
			return err
		}

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}

		// Save comment with post ID in key for efficient listing
		return txn.Set(commentKey(comment.PostID, comment.ID), data)
	})
}

// GetByID retrieves a comment by ID
func (s *BadgerCommentStore) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment

	err := s.db.View(func(txn *badger.Txn) error {
		key, err := findKey(txn, []byte(CommentKeyPrefix), id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
	})

	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post in creation order
func (s *BadgerCommentStore) ListByPost(postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := commentPrefix(postID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var comment models.Comment
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete deletes a comment by ID
func (s *BadgerCommentStore) Delete(id int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key, err := findKey(txn, []byte(CommentKeyPrefix), id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
