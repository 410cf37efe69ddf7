package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"postbrowser/app/models"
)

// HTTPUserRepository implements UserRepository over a Transport
type HTTPUserRepository struct {
	transport Transport
}

// NewHTTPUserRepository creates a new HTTPUserRepository
func NewHTTPUserRepository(t Transport) *HTTPUserRepository {
	return &HTTPUserRepository{transport: t}
}

// List fetches GET /users
func (r *HTTPUserRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.transport.Get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// HTTPPostRepository implements PostRepository over a Transport
type HTTPPostRepository struct {
	transport Transport
}

// NewHTTPPostRepository creates a new HTTPPostRepository
func NewHTTPPostRepository(t Transport) *HTTPPostRepository {
	return &HTTPPostRepository{transport: t}
}

// ListByUser fetches GET /posts?userId={id}
func (r *HTTPPostRepository) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	posts := []models.Post{}
	path := "/posts?" + url.Values{"userId": {strconv.Itoa(userID)}}.Encode()
	if err := r.transport.Get(ctx, path, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// HTTPCommentRepository implements CommentRepository over a Transport
type HTTPCommentRepository struct {
	transport Transport
}

// NewHTTPCommentRepository creates a new HTTPCommentRepository
func NewHTTPCommentRepository(t Transport) *HTTPCommentRepository {
	return &HTTPCommentRepository{transport: t}
}

// ListByPost fetches GET /comments?postId={id}
func (r *HTTPCommentRepository) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	comments := []models.Comment{}
	path := "/comments?" + url.Values{"postId": {strconv.Itoa(postID)}}.Encode()
	if err := r.transport.Get(ctx, path, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create sends POST /comments and returns the comment with its server id.
func (r *HTTPCommentRepository) Create(ctx context.Context, draft models.CommentDraft) (models.Comment, error) {
	var created models.Comment
	if err := r.transport.Post(ctx, "/comments", draft, &created); err != nil {
		return models.Comment{}, err
	}
	if created.ID == 0 {
		return models.Comment{}, fmt.Errorf("create comment: server returned no id")
	}
	return created, nil
}

// Delete sends DELETE /comments/{id}
func (r *HTTPCommentRepository) Delete(ctx context.Context, id int) error {
	return r.transport.Delete(ctx, "/comments/"+strconv.Itoa(id))
}

// Set bundles the three repositories the browser depends on.
type Set struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
}

// NewHTTPSet builds the HTTP repositories over one transport.
func NewHTTPSet(t Transport) Set {
	return Set{
		Users:    NewHTTPUserRepository(t),
		Posts:    NewHTTPPostRepository(t),
		Comments: NewHTTPCommentRepository(t),
	}
}
