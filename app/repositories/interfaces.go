// Package repositories holds the stateless request/response wrappers the
// browser uses to reach the remote data source, one per entity kind.
package repositories

import (
	"context"

	"postbrowser/app/models"
)

// Transport is the remote collaborator every repository talks through.
// *transport.Client satisfies it.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	ListByUser(ctx context.Context, userID int) ([]models.Post, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	ListByPost(ctx context.Context, postID int) ([]models.Comment, error)
	Create(ctx context.Context, draft models.CommentDraft) (models.Comment, error)
	Delete(ctx context.Context, id int) error
}
