package controllers

import (
	"net/http"

	"postbrowser/app/services"
)

// UserController handles HTTP requests for users
type UserController struct {
	catalog *services.CatalogService
}

// NewUserController creates a new UserController
func NewUserController(catalog *services.CatalogService) *UserController {
	return &UserController{catalog: catalog}
}

// Index handles GET /users
func (uc *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := uc.catalog.ListUsers()
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, users)
}
