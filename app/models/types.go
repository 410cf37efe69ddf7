package models

// User is an author of posts. Users are read-only on the client.
type User struct {
	ID       int    `json:"id" yaml:"id" validate:"gte=0"`
	Name     string `json:"name" yaml:"name" validate:"required,max=100"`
	Username string `json:"username,omitempty" yaml:"username"`
	Email    string `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" yaml:"phone"`
	Website  string `json:"website,omitempty" yaml:"website"`
}

// Post belongs to exactly one user.
type Post struct {
	ID     int    `json:"id" yaml:"id" validate:"gte=0"`
	UserID int    `json:"userId" yaml:"userId" validate:"required,gt=0"`
	Title  string `json:"title" yaml:"title" validate:"required,max=200"`
	Body   string `json:"body" yaml:"body" validate:"required"`
}

// Comment belongs to exactly one post. ID is zero until the server
// assigns one.
type Comment struct {
	ID     int    `json:"id" yaml:"id" validate:"gte=0"`
	PostID int    `json:"postId" yaml:"postId" validate:"required,gt=0"`
	Name   string `json:"name" yaml:"name" validate:"required,max=100"`
	Email  string `json:"email" yaml:"email" validate:"required,max=254"`
	Body   string `json:"body" yaml:"body" validate:"required,max=1000"`
}

// CommentDraft is the payload of a create request.
type CommentDraft struct {
	PostID int    `json:"postId" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required"`
	Body   string `json:"body" validate:"required"`
}
