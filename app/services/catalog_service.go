package services

import (
	"fmt"

	"postbrowser/app/models"
	"postbrowser/app/store"
)

// CatalogService handles the read side of the data source: users and
// their posts.
type CatalogService struct {
	userStore store.UserStore
	postStore store.PostStore
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(userStore store.UserStore, postStore store.PostStore) *CatalogService {
	return &CatalogService{
		userStore: userStore,
		postStore: postStore,
	}
}

// ListUsers retrieves every user
func (s *CatalogService) ListUsers() ([]*models.User, error) {
	return s.userStore.List()
}

// ListUserPosts retrieves the posts written by a user
func (s *CatalogService) ListUserPosts(userID int) ([]*models.Post, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID %d", ErrInvalidInput, userID)
	}

	// Verify user exists
	if _, err := s.userStore.GetByID(userID); err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}

	return s.postStore.ListByUser(userID)
}
