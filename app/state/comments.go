package state

import (
	"context"

	"postbrowser/app/models"
)

// SubmitComment validates draft and creates it for the open post. It
// returns synchronously only for problems found before any network call:
// a *Failure of kind ValidationFailure, ErrNoPostSelected or ErrStaleDraft.
// The outcome of the create itself lands in the comments slot.
//
// No placeholder item is inserted; the server's comment is appended once
// the create succeeds.
func (b *Browser) SubmitComment(ctx context.Context, draft models.CommentDraft) error {
	if err := draft.Validate(); err != nil {
		f := validationFailure(err)
		mutationTotal.WithLabelValues(SubjectAdd, "invalid").Inc()
		return f
	}

	b.mu.Lock()
	if b.selection.Post == nil {
		b.mu.Unlock()
		return ErrNoPostSelected
	}
	if draft.PostID != b.selection.Post.ID {
		b.mu.Unlock()
		return ErrStaleDraft
	}
	b.commentsPending++
	b.comments.Loading = true
	gen := b.commentsGen
	b.notifyLocked()
	b.mu.Unlock()

	b.spawn(func() {
		created, err := b.repos.Comments.Create(ctx, draft)

		b.mu.Lock()
		defer b.mu.Unlock()
		if gen != b.commentsGen {
			mutationTotal.WithLabelValues(SubjectAdd, resultStale).Inc()
			b.logger.Debug("discarding stale comment create", "post_id", draft.PostID, "error", err)
			return
		}
		b.settleCommentLocked()
		if err != nil {
			b.comments.Err = b.failLocked(newMutationFailure(SubjectAdd, err))
			mutationTotal.WithLabelValues(SubjectAdd, resultError).Inc()
		} else {
			b.comments.Items = append(b.comments.Items, created)
			b.clearMutationErrLocked()
			b.succeedLocked(SubjectComments)
			mutationTotal.WithLabelValues(SubjectAdd, resultOK).Inc()
		}
		b.notifyLocked()
	})
	return nil
}

// DeleteComment removes the comment from the slot at once and then asks
// the server to delete it. A failed delete is reported but the comment is
// not put back.
func (b *Browser) DeleteComment(ctx context.Context, id int) error {
	b.mu.Lock()
	if b.selection.Post == nil {
		b.mu.Unlock()
		return ErrNoPostSelected
	}
	idx := -1
	for i, c := range b.comments.Items {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return ErrUnknownComment
	}
	items := make([]models.Comment, 0, len(b.comments.Items)-1)
	items = append(items, b.comments.Items[:idx]...)
	b.comments.Items = append(items, b.comments.Items[idx+1:]...)
	if b.deleted == nil {
		b.deleted = make(map[int]struct{})
	}
	b.deleted[id] = struct{}{}
	gen := b.commentsGen
	b.notifyLocked()
	b.mu.Unlock()

	b.spawn(func() {
		err := b.repos.Comments.Delete(ctx, id)

		b.mu.Lock()
		defer b.mu.Unlock()
		if gen != b.commentsGen {
			mutationTotal.WithLabelValues(SubjectDelete, resultStale).Inc()
			b.logger.Debug("discarding stale comment delete", "comment_id", id, "error", err)
			return
		}
		if err != nil {
			b.comments.Err = b.failLocked(newMutationFailure(SubjectDelete, err))
			mutationTotal.WithLabelValues(SubjectDelete, resultError).Inc()
		} else {
			b.clearMutationErrLocked()
			b.succeedLocked(SubjectComments)
			mutationTotal.WithLabelValues(SubjectDelete, resultOK).Inc()
		}
		b.notifyLocked()
	})
	return nil
}

// clearMutationErrLocked drops an earlier add or delete failure from the
// comments slot. A failed load stays until the comments are fetched again.
func (b *Browser) clearMutationErrLocked() {
	if b.comments.Err != nil && b.comments.Err.Kind == MutationFailure {
		b.comments.Err = nil
	}
}
