// Package users implements the user listing and lookup endpoints.
package users

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/snapfeed/internal/httpx"
	"github.com/ayush/snapfeed/internal/models"
	"github.com/ayush/snapfeed/internal/store"
)

// UserStore defines the user persistence needed by these handlers.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
}

// PostStore resolves a user's posts for the profile endpoint.
type PostStore interface {
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
}

// ImageResolver turns a stored object key into a retrieval URL.
type ImageResolver interface {
	URL(key string) string
}

type Handler struct {
	users  UserStore
	posts  PostStore
	images ImageResolver
}

func NewHandler(users UserStore, posts PostStore, images ImageResolver) *Handler {
	return &Handler{users: users, posts: posts, images: images}
}

// List returns a page of users with the total count. GET /users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, limit, offset := httpx.Pagination(r)

	count, err := h.users.CountUsers(r.Context())
	if err != nil {
		log.Printf("list users: count: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	list, err := h.users.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Printf("list users: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, models.UserPage{Count: count, Users: list})
}

// Get returns a user together with all of their posts. GET /users/{id}.
// The password hash is never serialized.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.users.GetUserByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("get user %s: %v", id, err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	posts, err := h.posts.ListPostsByAuthor(r.Context(), user.ID)
	if err != nil {
		log.Printf("get user %s: posts: %v", id, err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for i := range posts {
		posts[i].ImageURL = h.images.URL(posts[i].ImageKey)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"posts": posts,
	})
}
