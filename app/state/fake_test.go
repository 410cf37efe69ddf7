package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"postbrowser/app/models"
	"postbrowser/app/repositories"
)

var errServer = errors.New("server unavailable")

// fakeRepo implements the three repositories in memory. A call can be held
// back with gate and let through with release to control arrival order.
type fakeRepo struct {
	mu       sync.Mutex
	users    []models.User
	posts    map[int][]models.Post
	comments map[int][]models.Comment
	errs     map[string]error
	gates    map[string]chan struct{}
	calls    []string
	nextID   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:    map[int][]models.Post{},
		comments: map[int][]models.Comment{},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
		nextID:   500,
	}
}

func (f *fakeRepo) gate(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[key] = make(chan struct{})
}

func (f *fakeRepo) release(key string) {
	f.mu.Lock()
	g := f.gates[key]
	delete(f.gates, key)
	f.mu.Unlock()
	close(g)
}

func (f *fakeRepo) fail(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

func (f *fakeRepo) enter(key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	g := f.gates[key]
	f.mu.Unlock()
	if g != nil {
		<-g
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[key]
}

func (f *fakeRepo) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

func (f *fakeRepo) List(ctx context.Context) ([]models.User, error) {
	if err := f.enter("users"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	if err := f.enter(fmt.Sprintf("posts:%d", userID)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Post{}, f.posts[userID]...), nil
}

type fakeComments struct{ *fakeRepo }

func (f fakeComments) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	if err := f.enter(fmt.Sprintf("comments:%d", postID)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment{}, f.comments[postID]...), nil
}

func (f fakeComments) Create(ctx context.Context, draft models.CommentDraft) (models.Comment, error) {
	if err := f.enter("create"); err != nil {
		return models.Comment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := *draft.Comment()
	c.ID = f.nextID
	f.comments[draft.PostID] = append(f.comments[draft.PostID], c)
	return c, nil
}

func (f fakeComments) Delete(ctx context.Context, id int) error {
	return f.enter(fmt.Sprintf("delete:%d", id))
}

func newTestBrowser(t *testing.T, repo *fakeRepo) *Browser {
	t.Helper()
	b := New(repositories.Set{
		Users:    repo,
		Posts:    repo,
		Comments: fakeComments{repo},
	}, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	t.Cleanup(b.Wait)
	return b
}

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.users = []models.User{{ID: 1, Name: "Leanne"}, {ID: 2, Name: "Ervin"}, {ID: 7, Name: "Kurtis"}}
	repo.posts[1] = []models.Post{
		{ID: 1, UserID: 1, Title: "first", Body: "a"},
		{ID: 2, UserID: 1, Title: "second", Body: "b"},
	}
	repo.posts[2] = []models.Post{{ID: 11, UserID: 2, Title: "other", Body: "c"}}
	repo.comments[1] = []models.Comment{
		{ID: 1, PostID: 1, Name: "x", Email: "x@y.z", Body: "one"},
		{ID: 2, PostID: 1, Name: "y", Email: "y@y.z", Body: "two"},
	}
	return repo
}
