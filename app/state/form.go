package state

import (
	"context"
	"sync"

	"postbrowser/app/models"
)

// CommentSubmitter is the coordinator side of the form. *Browser
// satisfies it.
type CommentSubmitter interface {
	SelectedPostID() int
	SubmitComment(ctx context.Context, draft models.CommentDraft) error
}

// Form holds the comment inputs and their errors. Each field validates
// independently.
type Form struct {
	submitter CommentSubmitter

	mu     sync.Mutex
	values map[Field]string
	errs   ValidationErrors
}

// NewForm creates an empty form that forwards drafts to submitter.
func NewForm(submitter CommentSubmitter) *Form {
	return &Form{
		submitter: submitter,
		values:    make(map[Field]string, len(Fields)),
		errs:      ValidationErrors{},
	}
}

// Set stores value for field and clears that field's error.
func (f *Form) Set(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	delete(f.errs, field)
}

// Value returns the current input of field.
func (f *Form) Value(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(ValidationErrors, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Submit checks that every field is filled in. Empty fields get their
// error set and nothing is sent. Otherwise the draft goes to the
// submitter for the open post. Values are kept either way so a failed
// add can be resubmitted; only Clear resets them.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	errs := ValidationErrors{}
	for _, field := range Fields {
		if f.values[field] == "" {
			errs[field] = field.Message()
		}
	}
	if len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return errs
	}
	postID := f.submitter.SelectedPostID()
	if postID == 0 {
		f.mu.Unlock()
		return ErrNoPostSelected
	}
	draft := models.CommentDraft{
		PostID: postID,
		Name:   f.values[FieldName],
		Email:  f.values[FieldEmail],
		Body:   f.values[FieldBody],
	}
	f.errs = ValidationErrors{}
	f.mu.Unlock()

	return f.submitter.SubmitComment(ctx, draft)
}

// Clear resets all values and errors.
func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[Field]string, len(Fields))
	f.errs = ValidationErrors{}
}
