package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postbrowser/app/models"
	"postbrowser/app/services"
	"postbrowser/app/store/mock"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, *mock.CommentStore) {
	stores, _, _, comments := mock.NewStores()
	require.NoError(t, stores.Users.Create(&models.User{ID: 1, Name: "Leanne"}))
	require.NoError(t, stores.Posts.Create(&models.Post{ID: 1, UserID: 1, Title: "t1", Body: "b1"}))
	require.NoError(t, stores.Posts.Create(&models.Post{ID: 2, UserID: 1, Title: "t2", Body: "b2"}))
	require.NoError(t, stores.Comments.Create(&models.Comment{ID: 1, PostID: 1, Name: "n", Email: "e", Body: "b"}))

	catalog := services.NewCatalogService(stores.Users, stores.Posts)
	commentService := services.NewCommentService(stores.Comments, stores.Posts)

	userController := NewUserController(catalog)
	postController := NewPostController(catalog)
	commentController := NewCommentController(commentService)

	// Register routes manually
	router := mux.NewRouter()
	router.HandleFunc("/users", userController.Index).Methods("GET")
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.HandleFunc("/comments", commentController.Index).Methods("GET")
	router.HandleFunc("/comments", commentController.Create).Methods("POST")
	router.HandleFunc("/comments/{id:[0-9]+}", commentController.Delete).Methods("DELETE")
	return router, comments
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserController(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Equal(t, []models.User{{ID: 1, Name: "Leanne"}}, users)
}

func TestPostController(t *testing.T) {
	router, _ := setupRouter(t)

	t.Run("posts of a user", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/posts?userId=1", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var posts []models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		assert.Len(t, posts, 2)
	})

	t.Run("missing user id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/posts", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/posts?userId=7", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCommentController(t *testing.T) {
	router, comments := setupRouter(t)

	t.Run("list comments", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/comments?postId=1", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var list []models.Comment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, 1, list[0].PostID)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/comments?postId=2", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("create comment", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/comments", `{"postId":2,"name":"Al","email":"a@b.c","body":"hi"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		var created models.Comment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotZero(t, created.ID)
		assert.Equal(t, 2, created.PostID)
		assert.Equal(t, "Al", created.Name)
	})

	t.Run("create invalid comment", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/comments", `{"postId":2,"name":"","email":"a@b.c","body":"hi"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})

	t.Run("create with malformed json", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/comments", `{"postId":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create on unknown post", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/comments", `{"postId":9,"name":"Al","email":"a@b.c","body":"hi"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete comment", func(t *testing.T) {
		w := serve(router, http.MethodDelete, "/comments/1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = serve(router, http.MethodDelete, "/comments/1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete store failure", func(t *testing.T) {
		comments.FailDelete = errors.New("disk full")
		defer func() { comments.FailDelete = nil }()

		w := serve(router, http.MethodDelete, "/comments/2", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
