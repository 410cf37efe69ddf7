package models

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name:    "valid comment",
			comment: &Comment{ID: 1, PostID: 1, Name: "Al", Email: "a@b.c", Body: "hi"},
			wantErr: false,
		},
		{
			name:    "missing post",
			comment: &Comment{Name: "Al", Email: "a@b.c", Body: "hi"},
			wantErr: true,
		},
		{
			name:    "empty body",
			comment: &Comment{PostID: 1, Name: "Al", Email: "a@b.c"},
			wantErr: true,
		},
		{
			name:    "nil comment",
			comment: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostValidation(t *testing.T) {
	assert.NoError(t, (&Post{ID: 1, UserID: 7, Title: "Title", Body: "Body"}).Validate())
	assert.Error(t, (&Post{ID: 1, Title: "Title", Body: "Body"}).Validate())
	assert.Error(t, (&Post{ID: 1, UserID: 7, Body: "Body"}).Validate())
}

func TestUserValidation(t *testing.T) {
	assert.NoError(t, (&User{ID: 1, Name: "Leanne Graham"}).Validate())
	assert.Error(t, (&User{ID: 1, Name: "Leanne Graham", Email: "not-an-email"}).Validate())
	assert.Error(t, (&User{ID: 1}).Validate())
}

func TestCommentDraftValidation(t *testing.T) {
	draft := CommentDraft{PostID: 3, Name: "Al", Email: "", Body: ""}
	err := draft.Validate()
	assert.Error(t, err)

	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"Email", "Body"}, fields)
}

func TestCommentDraftRoundTrip(t *testing.T) {
	draft := CommentDraft{PostID: 3, Name: "Al", Email: "a@b.c", Body: "hi"}
	comment := draft.Comment()
	assert.Equal(t, 0, comment.ID)
	assert.Equal(t, draft, comment.Draft())
}

func TestPostBelongsTo(t *testing.T) {
	post := &Post{ID: 1, UserID: 7}
	assert.True(t, post.BelongsTo(&User{ID: 7}))
	assert.False(t, post.BelongsTo(&User{ID: 8}))
	assert.False(t, post.BelongsTo(nil))
}
