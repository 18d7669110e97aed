package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/controllers"
	"bookshelf/internal/models"
	"bookshelf/internal/store"
	"bookshelf/internal/token"
	"bookshelf/internal/utils"
)

type memoryUserStore struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[uint]*models.User{}, nextID: 1}
}

func (m *memoryUserStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findBy(func(u *models.User) bool { return u.Username == username })
}

func (m *memoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findBy(func(u *models.User) bool { return u.Email == email })
}

func (m *memoryUserStore) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	return m.findBy(func(u *models.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (m *memoryUserStore) MarkVerified(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	stored.IsEmailVerified = true
	stored.VerificationToken = nil
	user.IsEmailVerified = true
	user.VerificationToken = nil
	return nil
}

func (m *memoryUserStore) findBy(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memoryUserStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *memoryUserStore) get(id uint) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func newAuthRouter(t *testing.T) (*gin.Engine, *memoryUserStore, *token.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemoryUserStore()
	issuer := token.NewIssuer("test-secret", time.Hour)
	var mail *utils.SMTPClient // unconfigured; dispatch is nil-safe
	auth := controllers.NewAuthController(users, issuer, mail, "http://localhost:8080", zerolog.Nop())

	r := gin.New()
	r.POST("/signup", auth.SignUp)
	r.POST("/login", auth.Login)
	r.GET("/verify", auth.Verify)
	return r, users, issuer
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSignupCreatesUnverifiedUser(t *testing.T) {
	r, users, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": "a", "email": "a@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	issued, _ := body["token"].(string)
	require.NotEmpty(t, issued)

	require.Equal(t, 1, users.count())
	u := users.get(1)
	require.NotNil(t, u)
	assert.False(t, u.IsEmailVerified)
	require.NotNil(t, u.VerificationToken)
	assert.Equal(t, issued, *u.VerificationToken)
	assert.NotEqual(t, "p1", u.PasswordHash)
}

func TestSignupMissingFields(t *testing.T) {
	r, users, _ := newAuthRouter(t)

	for _, body := range []gin.H{
		{"email": "a@x.com", "password": "p1"},
		{"username": "a", "password": "p1"},
		{"username": "a", "email": "a@x.com"},
		{"username": "a", "email": "not-an-email", "password": "p1"},
	} {
		w := doJSON(t, r, http.MethodPost, "/signup", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Equal(t, 0, users.count())
}

func TestSignupDuplicateEmail(t *testing.T) {
	r, users, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": "a", "email": "a@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": "b", "email": "a@x.com", "password": "p2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode(t, w)["message"])
	assert.Equal(t, 1, users.count())
}

func TestVerifyFlow(t *testing.T) {
	r, users, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": "a", "email": "a@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	issued := decode(t, w)["token"].(string)

	// missing token
	w = doJSON(t, r, http.MethodGet, "/verify", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// garbage token
	w = doJSON(t, r, http.MethodGet, "/verify?token=zzz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired token", decode(t, w)["message"])

	// record untouched so far
	u := users.get(1)
	assert.False(t, u.IsEmailVerified)
	require.NotNil(t, u.VerificationToken)

	// the real link
	w = doJSON(t, r, http.MethodGet, "/verify?token="+issued, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Email successfully verified!", decode(t, w)["message"])

	u = users.get(1)
	assert.True(t, u.IsEmailVerified)
	assert.Nil(t, u.VerificationToken)

	// single-use: the stored token is gone
	w = doJSON(t, r, http.MethodGet, "/verify?token="+issued, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired token", decode(t, w)["message"])
}

func TestVerifyWellFormedUnknownToken(t *testing.T) {
	r, _, issuer := newAuthRouter(t)

	// validly signed but never stored for any user
	stray, err := issuer.IssueVerification("ghost", "ghost@x.com")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/verify?token="+stray, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": "a", "email": "a@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", gin.H{"username": "a", "password": "p1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Please verify your email to login", decode(t, w)["message"])
}

func TestLoginAfterVerification(t *testing.T) {
	r, _, issuer := newAuthRouter(t)
	signupAndVerify(t, r, "a", "a@x.com", "p1")

	w := doJSON(t, r, http.MethodPost, "/login", gin.H{"username": "a", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "a", body["username"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, float64(1), body["userId"])

	claims, err := issuer.ParseSession(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
}

func TestLoginByEmailFallback(t *testing.T) {
	r, _, _ := newAuthRouter(t)
	signupAndVerify(t, r, "a", "a@x.com", "p1")

	w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "a@x.com", "password": "p1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	r, _, _ := newAuthRouter(t)
	signupAndVerify(t, r, "a", "a@x.com", "p1")

	// wrong password and unknown user get the same answer
	w := doJSON(t, r, http.MethodPost, "/login", gin.H{"username": "a", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid username/email or password", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodPost, "/login", gin.H{"username": "nobody", "password": "p1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid username/email or password", decode(t, w)["message"])
}

func TestLoginMissingFields(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	for _, body := range []gin.H{
		{"password": "p1"},
		{"username": "a"},
		{"email": "a@x.com"},
	} {
		w := doJSON(t, r, http.MethodPost, "/login", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("body %v", body))
	}
}

func signupAndVerify(t *testing.T, r *gin.Engine, username, email, password string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	issued := decode(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodGet, "/verify?token="+issued, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
