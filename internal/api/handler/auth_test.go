package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/chatrelay/internal/core"
)

func newAuthHandler(db *handlerMockDB) *Auth {
	return NewAuth(core.NewTenantService(db), core.NewAuthService("test-secret"))
}

// --- Register ---

func TestAuthRegister_InvalidJSON(t *testing.T) {
	h := newAuthHandler(&handlerMockDB{})
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/auth/register", "{bad json")

	h.Register(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestAuthRegister_WeakPassword(t *testing.T) {
	h := newAuthHandler(&handlerMockDB{})
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "short",
	})

	h.Register(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestAuthRegister_EmailTaken(t *testing.T) {
	db := &handlerMockDB{}
	h := newAuthHandler(db)

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*bool)) = true
		return nil
	}}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"alice@example.com"}).Return(row)

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter2secret",
	})

	h.Register(rec, r)

	assert.Equal(t, http.StatusConflict, rec.Code)
	db.AssertExpectations(t)
}

func TestAuthRegister_Success(t *testing.T) {
	db := &handlerMockDB{}
	h := newAuthHandler(db)

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*bool)) = false
		return nil
	}}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"alice@example.com"}).Return(row)
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter2secret",
	})

	h.Register(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Token  string `json:"token"`
		Tenant struct {
			ID     string `json:"id"`
			Email  string `json:"email"`
			APIKey string `json:"api_key"`
		} `json:"tenant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "alice@example.com", body.Tenant.Email)
	assert.NotEmpty(t, body.Tenant.APIKey)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	db.AssertExpectations(t)
}

// --- Login ---

func TestAuthLogin_UnknownEmail(t *testing.T) {
	db := &handlerMockDB{}
	h := newAuthHandler(db)

	row := &mockRow{scanFunc: func(dest ...any) error {
		return pgx.ErrNoRows
	}}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"ghost@example.com"}).Return(row)

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/auth/login", map[string]any{
		"email":    "ghost@example.com",
		"password": "whatever",
	})

	h.Login(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	db.AssertExpectations(t)
}

func TestAuthLogin_Success(t *testing.T) {
	db := &handlerMockDB{}
	h := newAuthHandler(db)

	hash, err := core.HashPassword("hunter2secret")
	require.NoError(t, err)
	row := scanTenant("tenant-1", "alice@example.com", hash, "key-1", "pro", true, nil, `{}`)
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"alice@example.com"}).Return(row)

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter2secret",
	})

	h.Login(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	db.AssertExpectations(t)
}
