// Package mock provides in-memory stores for handler and service tests.
package mock

import (
	"sort"
	"sync"

	"postbrowser/app/models"
	"postbrowser/app/store"
)

type UserStore struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

type PostStore struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

type CommentStore struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex
	// FailDelete makes Delete return the given error when set.
	FailDelete error
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int]*models.User), nextID: 1}
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[int]*models.Post), nextID: 1}
}

func NewCommentStore() *CommentStore {
	return &CommentStore{comments: make(map[int]*models.Comment), nextID: 1}
}

// NewStores returns a bundle of empty in-memory stores.
func NewStores() (store.Stores, *UserStore, *PostStore, *CommentStore) {
	users, posts, comments := NewUserStore(), NewPostStore(), NewCommentStore()
	return store.Stores{Users: users, Posts: posts, Comments: comments}, users, posts, comments
}

// UserStore implementation
func (m *UserStore) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if user.ID == 0 {
		user.ID = m.nextID
	}
	if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *UserStore) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *UserStore) List() ([]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	users := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// PostStore implementation
func (m *PostStore) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if post.ID == 0 {
		post.ID = m.nextID
	}
	if post.ID >= m.nextID {
		m.nextID = post.ID + 1
	}
	copied := *post
	m.posts[post.ID] = &copied
	return nil
}

func (m *PostStore) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *PostStore) ListByUser(userID int) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		if post.UserID == userID {
			copied := *post
			posts = append(posts, &copied)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

// CommentStore implementation
func (m *CommentStore) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if comment.ID == 0 {
		comment.ID = m.nextID
	}
	if comment.ID >= m.nextID {
		m.nextID = comment.ID + 1
	}
	copied := *comment
	m.comments[comment.ID] = &copied
	return nil
}

func (m *CommentStore) GetByID(id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (m *CommentStore) ListByPost(postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentStore) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.FailDelete != nil {
		return m.FailDelete
	}
	if _, exists := m.comments[id]; !exists {
		return store.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}
