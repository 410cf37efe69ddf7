package routes

import (
	"log/slog"
	"net/http"

	"postbrowser/app/controllers"
	"postbrowser/app/middleware"
	"postbrowser/app/services"
	"postbrowser/app/store"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options tunes the router. Zero values disable the optional pieces.
type Options struct {
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter
}

// SetupRoutes defines the data source routes and returns a router.
func SetupRoutes(stores store.Stores, opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Metrics)
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware)
	}
	router.Use(middleware.ContentTypeJSON)

	catalog := services.NewCatalogService(stores.Users, stores.Posts)
	commentService := services.NewCommentService(stores.Comments, stores.Posts)

	userController := controllers.NewUserController(catalog)
	postController := controllers.NewPostController(catalog)
	commentController := controllers.NewCommentController(commentService)

	router.HandleFunc("/users", userController.Index).Methods(http.MethodGet)
	router.HandleFunc("/posts", postController.Index).Methods(http.MethodGet)
	router.HandleFunc("/comments", commentController.Index).Methods(http.MethodGet)
	router.HandleFunc("/comments", commentController.Create).Methods(http.MethodPost)
	router.HandleFunc("/comments/{id:[0-9]+}", commentController.Delete).Methods(http.MethodDelete)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return router
}
