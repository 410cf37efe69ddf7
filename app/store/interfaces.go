package store

import "postbrowser/app/models"

// UserStore defines the interface for user data access
type UserStore interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	List() ([]*models.User, error)
}

// PostStore defines the interface for post data access
type PostStore interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	ListByUser(userID int) ([]*models.Post, error)
}

// CommentStore defines the interface for comment data access
type CommentStore interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	Delete(id int) error
}
