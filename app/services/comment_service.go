package services

import (
	"errors"
	"fmt"

	"postbrowser/app/models"
	"postbrowser/app/store"
)

// ErrInvalidInput marks requests rejected before reaching the store.
var ErrInvalidInput = errors.New("invalid input")

// CommentService handles business logic for comments
type CommentService struct {
	commentStore store.CommentStore
	postStore    store.PostStore
}

// NewCommentService creates a new CommentService
func NewCommentService(commentStore store.CommentStore, postStore store.PostStore) *CommentService {
	return &CommentService{
		commentStore: commentStore,
		postStore:    postStore,
	}
}

// CreateComment validates the draft and stores it, returning the comment
// with its assigned ID.
func (s *CommentService) CreateComment(draft models.CommentDraft) (*models.Comment, error) {
	comment := draft.Comment()
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// Verify post exists
	if _, err := s.postStore.GetByID(comment.PostID); err != nil {
		return nil, fmt.Errorf("post %d: %w", comment.PostID, err)
	}

	if err := s.commentStore.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListPostComments retrieves all comments for a post
func (s *CommentService) ListPostComments(postID int) ([]*models.Comment, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("%w: invalid post ID %d", ErrInvalidInput, postID)
	}

	// Verify post exists
	if _, err := s.postStore.GetByID(postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}

	return s.commentStore.ListByPost(postID)
}

// DeleteComment deletes a comment
func (s *CommentService) DeleteComment(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid comment ID %d", ErrInvalidInput, id)
	}
	return s.commentStore.Delete(id)
}
