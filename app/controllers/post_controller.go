package controllers

import (
	"net/http"
	"strconv"

	"postbrowser/app/services"
)

// PostController handles HTTP requests for posts
type PostController struct {
	catalog *services.CatalogService
}

// NewPostController creates a new PostController
func NewPostController(catalog *services.CatalogService) *PostController {
	return &PostController{catalog: catalog}
}

// Index handles GET /posts?userId={id}
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil {
		sendError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	posts, err := pc.catalog.ListUserPosts(userID)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}
