// Package posts implements the post feed, creation and deletion endpoints.
package posts

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ayush/snapfeed/internal/httpx"
	"github.com/ayush/snapfeed/internal/middleware"
	"github.com/ayush/snapfeed/internal/models"
	"github.com/ayush/snapfeed/internal/store"
	"github.com/ayush/snapfeed/internal/validator"
)

// maxUploadBytes caps the multipart form size for POST /posts.
const maxUploadBytes = 32 << 20

// PostStore defines the post persistence needed by these handlers.
type PostStore interface {
	CreatePost(ctx context.Context, title, content, imageKey, authorID string) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	CountPosts(ctx context.Context) (int, error)
	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
}

// FileStore defines the object storage needed for post images.
type FileStore interface {
	Upload(ctx context.Context, key, path, contentType string) error
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

type Handler struct {
	posts PostStore
	files FileStore
}

func NewHandler(posts PostStore, files FileStore) *Handler {
	return &Handler{posts: posts, files: files}
}

// List returns a page of all posts, newest first, with author and image URL.
// GET /posts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, limit, offset := httpx.Pagination(r)

	count, err := h.posts.CountPosts(r.Context())
	if err != nil {
		log.Printf("list posts: count: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	list, err := h.posts.ListPosts(r.Context(), limit, offset)
	if err != nil {
		log.Printf("list posts: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for i := range list {
		list[i].ImageURL = h.files.URL(list[i].ImageKey)
	}

	httpx.WriteJSON(w, http.StatusOK, models.PostPage{Count: count, Posts: list})
}

// ListMine returns all posts owned by the caller, newest first. GET /my-posts.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	list, err := h.posts.ListPostsByAuthor(r.Context(), userID)
	if err != nil {
		log.Printf("my posts: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for i := range list {
		list[i].ImageURL = h.files.URL(list[i].ImageKey)
	}

	httpx.WriteJSON(w, http.StatusOK, list)
}

// Create accepts a multipart payload with title, content and a single image
// file, stages the file locally, uploads it to object storage and persists the
// post. POST /posts. The staged file is removed on every exit path; the
// uploaded object is removed if the insert fails.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	errs := validator.Check(map[string]string{
		"title":   title,
		"content": content,
	}, validator.PostRules)

	file, header, err := r.FormFile("file")
	if err != nil {
		errs.Add("file", "file is required")
	} else {
		defer file.Close()
	}
	if errs.HasErrors() {
		httpx.WriteValidationErrors(w, errs)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	staged, err := stageUpload(file, ext)
	if err != nil {
		log.Printf("create post: stage upload: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer staged.cleanup()

	key := uuid.New().String() + ext
	contentType := header.Header.Get("Content-Type")
	if err := h.files.Upload(r.Context(), key, staged.path, contentType); err != nil {
		log.Printf("create post: upload: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if _, err := h.posts.CreatePost(r.Context(), title, content, key, userID); err != nil {
		log.Printf("create post: %v", err)
		if rmErr := h.files.Remove(r.Context(), key); rmErr != nil {
			log.Printf("create post: undo upload %s: %v", key, rmErr)
		}
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Delete removes a post if the caller owns it. DELETE /posts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	post, err := h.posts.GetPostByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("delete post %s: %v", id, err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if post.AuthorID != userID {
		httpx.WriteError(w, http.StatusUnauthorized, "Not the author of this post")
		return
	}

	if err := h.posts.DeletePost(r.Context(), id); err != nil {
		log.Printf("delete post %s: %v", id, err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// stagedFile is a temporary local copy of an uploaded file.
type stagedFile struct {
	path string
}

func (s *stagedFile) cleanup() {
	os.Remove(s.path)
}

// stageUpload copies the uploaded part to a temp file carrying the original
// extension, so the object key keeps it too.
func stageUpload(src io.Reader, ext string) (*stagedFile, error) {
	tmp, err := os.CreateTemp("", "snapfeed-upload-*"+ext)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	return &stagedFile{path: tmp.Name()}, nil
}
