package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared validator instance so callers can inspect
// field level errors with the same rules the models use.
func Validator() *validator.Validate {
	return validate
}

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	if u == nil {
		return errors.New("user cannot be nil")
	}
	return validate.Struct(u)
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if p == nil {
		return errors.New("post cannot be nil")
	}
	return validate.Struct(p)
}

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if c == nil {
		return errors.New("comment cannot be nil")
	}
	return validate.Struct(c)
}

// Validate checks that every draft field is present.
func (d CommentDraft) Validate() error {
	return validate.Struct(d)
}

// Comment converts the draft into an unsaved comment.
func (d CommentDraft) Comment() *Comment {
	return &Comment{
		PostID: d.PostID,
		Name:   d.Name,
		Email:  d.Email,
		Body:   d.Body,
	}
}

// Draft returns the create payload for an existing comment.
func (c *Comment) Draft() CommentDraft {
	return CommentDraft{
		PostID: c.PostID,
		Name:   c.Name,
		Email:  c.Email,
		Body:   c.Body,
	}
}

// BelongsTo reports whether the post was written by the user.
func (p *Post) BelongsTo(user *User) bool {
	return p != nil && user != nil && p.UserID == user.ID
}
