package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureError(t *testing.T) {
	tests := []struct {
		failure *Failure
		want    string
	}{
		{newLoadFailure(SubjectUsers, errServer), "Failed to load users"},
		{newLoadFailure(SubjectPosts, errServer), "Failed to load posts"},
		{newLoadFailure(SubjectComments, errServer), "Failed to load comments"},
		{newMutationFailure(SubjectAdd, errServer), "Unable to add a comment"},
		{newMutationFailure(SubjectDelete, errServer), "Unable to delete comment"},
		{&Failure{Kind: ValidationFailure, Subject: "email", Err: errors.New("Email is required")}, "Email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.failure.Error())
			if tt.failure.Kind != ValidationFailure {
				assert.ErrorIs(t, tt.failure, errServer)
			}
		})
	}
}

func TestFailureTier(t *testing.T) {
	assert.Equal(t, SubjectPosts, newLoadFailure(SubjectPosts, nil).tier())
	assert.Equal(t, SubjectComments, newMutationFailure(SubjectDelete, nil).tier())
}

func TestValidationErrorsOrder(t *testing.T) {
	errs := ValidationErrors{FieldBody: "Enter some text", FieldName: "Name is required"}
	assert.Equal(t, "Name is required; Enter some text", errs.Error())
}
