package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/snapfeed/internal/httpx"
	"github.com/ayush/snapfeed/internal/models"
	"github.com/ayush/snapfeed/internal/store"
	"github.com/ayush/snapfeed/internal/validator"
)

// UserStore defines the user persistence needed by the auth handlers.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Handler holds the registration and login HTTP handlers. pepper is a fixed
// string appended to every password before hashing.
type Handler struct {
	users  UserStore
	tokens *TokenManager
	pepper string
}

func NewHandler(users UserStore, tokens *TokenManager, pepper string) *Handler {
	return &Handler{users: users, tokens: tokens, pepper: pepper}
}

// Register creates a new user. POST /users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := validator.Check(map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	}, validator.RegisterRules)
	if errs.HasErrors() {
		httpx.WriteValidationErrors(w, errs)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password+h.pepper), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("register: hash password: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	_, err = h.users.CreateUser(r.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), string(hashed))
	if errors.Is(err, store.ErrDuplicateEmail) {
		httpx.WriteError(w, http.StatusConflict, "Email is already registered")
		return
	}
	if err != nil {
		log.Printf("register: create user: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Login verifies credentials and issues a bearer token. POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := validator.Check(map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}, validator.LoginRules)
	if errs.HasErrors() {
		httpx.WriteValidationErrors(w, errs)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("login: get user: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password+h.pepper)); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("login: issue token: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": user,
		"jwt":  token,
	})
}
