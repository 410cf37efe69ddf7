package state

import "postbrowser/app/models"

// Slot is the loading status of one tier.
type Slot[T any] struct {
	Items   []T
	Loading bool
	Err     *Failure
}

// Empty reports whether the slot holds no items.
func (s Slot[T]) Empty() bool {
	return len(s.Items) == 0
}

func (s Slot[T]) clone() Slot[T] {
	out := s
	if s.Items != nil {
		out.Items = append([]T(nil), s.Items...)
	}
	return out
}

// begin resets the slot ahead of a fetch for a new dependency value.
func (s *Slot[T]) begin() {
	s.Items = nil
	s.Loading = true
	s.Err = nil
}

// Selection is the current cursor into the hierarchy. Nil means none.
type Selection struct {
	User *models.User
	Post *models.Post
}

func (s Selection) clone() Selection {
	var out Selection
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Post != nil {
		p := *s.Post
		out.Post = &p
	}
	return out
}

// UserID returns the selected user id, or 0.
func (s Selection) UserID() int {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

// PostID returns the open post id, or 0.
func (s Selection) PostID() int {
	if s.Post == nil {
		return 0
	}
	return s.Post.ID
}

// Snapshot is a consistent copy of the browser state for rendering.
type Snapshot struct {
	Users     Slot[models.User]
	Posts     Slot[models.Post]
	Comments  Slot[models.Comment]
	Selection Selection
	LastError *Failure
	FormOpen  bool
}
