package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/snapfeed/internal/models"
	"github.com/ayush/snapfeed/internal/store"
)

// fakeUserStore keeps users in memory, keyed by email.
type fakeUserStore struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, name, email, hashedPw string) (*models.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, store.ErrDuplicateEmail
	}
	f.nextID++
	u := &models.User{
		ID:        fmt.Sprintf("user-%d", f.nextID),
		Name:      name,
		Email:     email,
		Password:  hashedPw,
		CreatedAt: time.Now(),
	}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

const testPepper = "test-pepper"

func newTestHandler() (*Handler, *fakeUserStore, *TokenManager) {
	users := newFakeUserStore()
	tokens := NewTokenManager("test-secret")
	return NewHandler(users, tokens, testPepper), users, tokens
}

func doJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)
	return resp
}

func TestRegisterCreatesUser(t *testing.T) {
	h, users, _ := newTestHandler()

	resp := doJSON(t, h.Register, `{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", resp.Body.String())
	}

	u, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123"+testPepper)); err != nil {
		t.Fatal("stored hash does not match peppered password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, users, _ := newTestHandler()

	body := `{"name":"Alice","email":"alice@example.com","password":"secret123"}`
	if resp := doJSON(t, h.Register, body); resp.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", resp.Code)
	}
	resp := doJSON(t, h.Register, `{"name":"Other","email":"alice@example.com","password":"different1"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected a single stored user, got %d", len(users.users))
	}
	if users.users["alice@example.com"].Name != "Alice" {
		t.Fatal("original record was replaced")
	}
}

func TestRegisterShortPassword(t *testing.T) {
	h, users, _ := newTestHandler()

	resp := doJSON(t, h.Register, `{"name":"Alice","email":"alice@example.com","password":"12345"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "at least 6") {
		t.Fatalf("expected a minimum-length message, got %s", resp.Body.String())
	}
	if len(users.users) != 0 {
		t.Fatal("no user should be created")
	}
}

func TestRegisterReportsAllViolations(t *testing.T) {
	h, _, _ := newTestHandler()

	resp := doJSON(t, h.Register, `{"name":"a","email":"bad","password":"12"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if len(payload.Fields) != 3 {
		t.Fatalf("expected 3 field errors in one response, got %v", payload.Fields)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _, _ := newTestHandler()

	resp := doJSON(t, h.Login, `{"email":"ghost@example.com","password":"whatever1"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, _, _ := newTestHandler()
	doJSON(t, h.Register, `{"name":"Alice","email":"alice@example.com","password":"secret123"}`)

	resp := doJSON(t, h.Login, `{"email":"alice@example.com","password":"wrongpass"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	h, users, tokens := newTestHandler()
	doJSON(t, h.Register, `{"name":"Alice","email":"alice@example.com","password":"secret123"}`)

	resp := doJSON(t, h.Login, `{"email":"alice@example.com","password":"secret123"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		User models.User `json:"user"`
		JWT  string      `json:"jwt"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if payload.JWT == "" {
		t.Fatal("expected a token in the response")
	}

	sub, err := tokens.Verify(payload.JWT)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if sub != users.users["alice@example.com"].ID {
		t.Fatalf("token subject %q does not match user id", sub)
	}
	if strings.Contains(resp.Body.String(), "$2a$") {
		t.Fatal("response must not leak the password hash")
	}
}
