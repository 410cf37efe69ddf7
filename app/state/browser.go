// Package state holds the selection driven browser: three dependent
// slots (users, posts, comments) kept consistent with one selection
// cursor, plus the comment add/delete coordinator and the comment form.
package state

import (
	"context"
	"log/slog"
	"sync"

	"postbrowser/app/models"
	"postbrowser/app/repositories"
)

// Options configures a Browser.
type Options struct {
	Logger *slog.Logger
}

// Browser owns the selection and the three slots. Every network call runs
// in its own goroutine and only touches state when it is issued and when
// it settles, so callers never block.
//
// Each pipeline carries a generation counter. A result whose generation
// no longer matches at settle time belongs to a superseded selection and
// is dropped.
type Browser struct {
	repos  repositories.Set
	logger *slog.Logger

	mu        sync.Mutex
	users     Slot[models.User]
	posts     Slot[models.Post]
	comments  Slot[models.Comment]
	selection Selection
	formOpen  bool
	lastErr   *Failure

	usersGen    uint64
	postsGen    uint64
	commentsGen uint64
	// commentsPending counts the fetch and adds in flight for the open post.
	commentsPending int
	// deleted holds ids removed from the open post so a late fetch cannot
	// bring them back.
	deleted map[int]struct{}

	wg      sync.WaitGroup
	updates chan struct{}
}

// New creates a Browser over the given repositories. Nothing is fetched
// until LoadUsers is called.
func New(repos repositories.Set, opts Options) *Browser {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		repos:   repos,
		logger:  logger.With("component", "browser"),
		updates: make(chan struct{}, 1),
	}
}

// Updates returns a channel that receives after state changes. Signals
// coalesce: one receive may stand for several changes.
func (b *Browser) Updates() <-chan struct{} {
	return b.updates
}

// Wait blocks until every issued operation has settled.
func (b *Browser) Wait() {
	b.wg.Wait()
}

// Snapshot returns a copy of the current state.
func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Users:     b.users.clone(),
		Posts:     b.posts.clone(),
		Comments:  b.comments.clone(),
		Selection: b.selection.clone(),
		LastError: b.lastErr,
		FormOpen:  b.formOpen,
	}
}

// LastError returns the most recent failure across all tiers, or nil.
func (b *Browser) LastError() *Failure {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// SelectedPostID returns the id of the open post, or 0.
func (b *Browser) SelectedPostID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection.PostID()
}

// LoadUsers fetches all users. Items of an earlier success are kept when
// the fetch fails.
func (b *Browser) LoadUsers(ctx context.Context) {
	b.mu.Lock()
	b.usersGen++
	gen := b.usersGen
	b.users.Loading = true
	b.users.Err = nil
	b.notifyLocked()
	b.mu.Unlock()

	b.spawn(func() {
		users, err := b.repos.Users.List(ctx)

		b.mu.Lock()
		defer b.mu.Unlock()
		if gen != b.usersGen {
			b.discard(SubjectUsers, err)
			return
		}
		b.users.Loading = false
		if err != nil {
			b.users.Err = b.failLocked(newLoadFailure(SubjectUsers, err))
			fetchTotal.WithLabelValues(SubjectUsers, resultError).Inc()
		} else {
			b.users.Items = users
			b.users.Err = nil
			b.succeedLocked(SubjectUsers)
			fetchTotal.WithLabelValues(SubjectUsers, resultOK).Inc()
		}
		b.notifyLocked()
	})
}

// SelectUser makes user current and fetches their posts. The open post
// and the comments slot are cleared before it returns. Selecting the
// current user again refetches.
func (b *Browser) SelectUser(ctx context.Context, user models.User) {
	b.mu.Lock()
	b.selection.User = &user
	b.selection.Post = nil
	b.formOpen = false
	b.resetCommentsLocked()
	b.posts.begin()
	b.postsGen++
	gen := b.postsGen
	b.notifyLocked()
	b.mu.Unlock()

	b.spawn(func() {
		posts, err := b.repos.Posts.ListByUser(ctx, user.ID)

		b.mu.Lock()
		defer b.mu.Unlock()
		if gen != b.postsGen {
			b.discard(SubjectPosts, err)
			return
		}
		b.posts.Loading = false
		if err != nil {
			b.posts.Err = b.failLocked(newLoadFailure(SubjectPosts, err))
			fetchTotal.WithLabelValues(SubjectPosts, resultError).Inc()
		} else {
			b.posts.Items = posts
			b.succeedLocked(SubjectPosts)
			fetchTotal.WithLabelValues(SubjectPosts, resultOK).Inc()
		}
		b.notifyLocked()
	})
}

// SelectPost opens post and fetches its comments. Opening the post that is
// already open does nothing.
func (b *Browser) SelectPost(ctx context.Context, post models.Post) error {
	b.mu.Lock()
	if !post.BelongsTo(b.selection.User) {
		b.mu.Unlock()
		return ErrPostNotInSelection
	}
	if b.selection.PostID() == post.ID {
		b.mu.Unlock()
		return nil
	}
	b.selection.Post = &post
	b.formOpen = false
	b.resetCommentsLocked()
	b.comments.begin()
	b.commentsPending = 1
	gen := b.commentsGen
	b.notifyLocked()
	b.mu.Unlock()

	b.spawn(func() {
		comments, err := b.repos.Comments.ListByPost(ctx, post.ID)

		b.mu.Lock()
		defer b.mu.Unlock()
		if gen != b.commentsGen {
			b.discard(SubjectComments, err)
			return
		}
		b.settleCommentLocked()
		if err != nil {
			b.comments.Err = b.failLocked(newLoadFailure(SubjectComments, err))
			fetchTotal.WithLabelValues(SubjectComments, resultError).Inc()
		} else {
			b.comments.Items = mergeComments(comments, b.comments.Items, b.deleted)
			b.succeedLocked(SubjectComments)
			fetchTotal.WithLabelValues(SubjectComments, resultOK).Inc()
		}
		b.notifyLocked()
	})
	return nil
}

// ClosePost clears the open post and its comments. The selected user and
// posts are untouched. It is a no-op when no post is open.
func (b *Browser) ClosePost() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selection.Post == nil {
		return
	}
	b.selection.Post = nil
	b.formOpen = false
	b.resetCommentsLocked()
	b.notifyLocked()
}

// OpenForm shows the comment form for the open post.
func (b *Browser) OpenForm() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selection.Post == nil {
		return ErrNoPostSelected
	}
	if !b.formOpen {
		b.formOpen = true
		b.notifyLocked()
	}
	return nil
}

// CloseForm hides the comment form.
func (b *Browser) CloseForm() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.formOpen {
		b.formOpen = false
		b.notifyLocked()
	}
}

// resetCommentsLocked empties the comments slot and invalidates anything
// still in flight for the previous post.
func (b *Browser) resetCommentsLocked() {
	b.comments = Slot[models.Comment]{}
	b.commentsGen++
	b.commentsPending = 0
	b.deleted = nil
}

// settleCommentLocked marks one comments operation as finished.
func (b *Browser) settleCommentLocked() {
	if b.commentsPending > 0 {
		b.commentsPending--
	}
	b.comments.Loading = b.commentsPending > 0
}

// failLocked records f as the last error and returns it.
func (b *Browser) failLocked(f *Failure) *Failure {
	b.lastErr = f
	b.logger.Warn("operation failed", "kind", f.Kind.String(), "subject", f.Subject, "error", f.Err)
	return f
}

// succeedLocked clears the last error if it belongs to tier.
func (b *Browser) succeedLocked(tier string) {
	if b.lastErr != nil && b.lastErr.tier() == tier {
		b.lastErr = nil
	}
}

func (b *Browser) discard(tier string, err error) {
	fetchTotal.WithLabelValues(tier, resultStale).Inc()
	b.logger.Debug("discarding stale result", "tier", tier, "error", err)
}

func (b *Browser) notifyLocked() {
	select {
	case b.updates <- struct{}{}:
	default:
	}
}

func (b *Browser) spawn(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// mergeComments returns fetched followed by any local comments the fetch
// did not include, minus deleted ids. Local comments can only be adds that
// settled while the fetch was in flight.
func mergeComments(fetched, local []models.Comment, deleted map[int]struct{}) []models.Comment {
	if len(local) == 0 && len(deleted) == 0 {
		return fetched
	}
	seen := make(map[int]struct{}, len(fetched))
	out := make([]models.Comment, 0, len(fetched)+len(local))
	for _, c := range fetched {
		if _, gone := deleted[c.ID]; gone {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	for _, c := range local {
		if _, ok := seen[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}
