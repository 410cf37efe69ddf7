package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FailureKind classifies a Failure.
type FailureKind int

const (
	// LoadFailure is a failed fetch; Subject is users, posts or comments.
	LoadFailure FailureKind = iota + 1
	// MutationFailure is a failed comment add or delete.
	MutationFailure
	// ValidationFailure is a rejected draft field; Subject is the field.
	ValidationFailure
)

func (k FailureKind) String() string {
	switch k {
	case LoadFailure:
		return "load"
	case MutationFailure:
		return "mutation"
	case ValidationFailure:
		return "validation"
	default:
		return "unknown"
	}
}

// Tier and mutation subjects.
const (
	SubjectUsers    = "users"
	SubjectPosts    = "posts"
	SubjectComments = "comments"
	SubjectAdd      = "add"
	SubjectDelete   = "delete"
)

var (
	// ErrPostNotInSelection is returned by SelectPost for a post that was
	// not written by the selected user.
	ErrPostNotInSelection = errors.New("post does not belong to the selected user")
	// ErrStaleDraft is returned by SubmitComment when the draft targets a
	// post other than the open one.
	ErrStaleDraft = errors.New("draft does not target the open post")
	// ErrNoPostSelected is returned by operations that need an open post.
	ErrNoPostSelected = errors.New("no post selected")
	// ErrUnknownComment is returned by DeleteComment for an id that is not
	// in the comments slot.
	ErrUnknownComment = errors.New("comment is not in the open post")
)

// Failure is the user facing form of an error caught at a pipeline or
// coordinator boundary.
type Failure struct {
	Kind    FailureKind
	Subject string
	Err     error
}

func newLoadFailure(subject string, err error) *Failure {
	return &Failure{Kind: LoadFailure, Subject: subject, Err: err}
}

func newMutationFailure(subject string, err error) *Failure {
	return &Failure{Kind: MutationFailure, Subject: subject, Err: err}
}

// Error renders the text shown to the user.
func (f *Failure) Error() string {
	switch f.Kind {
	case LoadFailure:
		return "Failed to load " + f.Subject
	case MutationFailure:
		if f.Subject == SubjectAdd {
			return "Unable to add a comment"
		}
		return "Unable to delete comment"
	case ValidationFailure:
		if f.Err != nil {
			return f.Err.Error()
		}
		return f.Subject + " is invalid"
	default:
		return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// tier names the slot a failure belongs to. Mutations always belong to
// the comments tier.
func (f *Failure) tier() string {
	if f.Kind == LoadFailure {
		return f.Subject
	}
	return SubjectComments
}

// Field identifies one input of the comment form.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldBody  Field = "body"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldName, FieldEmail, FieldBody}

var requiredMessages = map[Field]string{
	FieldName:  "Name is required",
	FieldEmail: "Email is required",
	FieldBody:  "Enter some text",
}

// Message returns the text shown when the field is left empty.
func (f Field) Message() string {
	return requiredMessages[f]
}

// ValidationErrors maps each rejected field to its message.
type ValidationErrors map[Field]string

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, f := range Fields {
		if msg, ok := v[f]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// validationFailure converts a draft validation error into a Failure for
// its first rejected field.
func validationFailure(err error) *Failure {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Failure{Kind: ValidationFailure, Subject: "draft", Err: err}
	}
	var field Field
	switch verrs[0].StructField() {
	case "Name":
		field = FieldName
	case "Email":
		field = FieldEmail
	case "Body":
		field = FieldBody
	default:
		return &Failure{Kind: ValidationFailure, Subject: strings.ToLower(verrs[0].StructField()), Err: err}
	}
	return &Failure{Kind: ValidationFailure, Subject: string(field), Err: errors.New(field.Message())}
}
