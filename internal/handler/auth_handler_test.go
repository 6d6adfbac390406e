package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesSession(t *testing.T) {
	r, st := setupRouter(t)

	rec := postForm(r, "/auth/register", url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"password": {"password"},
	}, nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookie := sessionCookie(t, rec)
	user, ok := st.users[cookie.Value]
	require.True(t, ok, "cookie value must be the stored user id")
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "Ada", "ada@example.com")

	rec := postForm(r, "/auth/register", url.Values{
		"name":     {"Other"},
		"email":    {"ada@example.com"},
		"password": {"password"},
	}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user with this email already exists", body["error"])
}

func TestRegisterValidation(t *testing.T) {
	r, st := setupRouter(t)

	rec := postForm(r, "/auth/register", url.Values{
		"email":    {"ada@example.com"},
		"password": {"password"},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "name is required", body["error"])
	assert.Empty(t, st.users)
}

func TestLoginSuccess(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "Ada", "ada@example.com")

	rec := postForm(r, "/auth/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"password"},
	}, nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	sessionCookie(t, rec)
}

func TestLoginInvalidCredentials(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "Ada", "ada@example.com")

	for _, form := range []url.Values{
		{"email": {"ada@example.com"}, "password": {"wrong"}},
		{"email": {"nobody@example.com"}, "password": {"password"}},
	} {
		rec := postForm(r, "/auth/login", form, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "invalid email or password", body["error"])
	}
}

func TestMe(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := registerUser(t, r, "Ada", "ada@example.com")

	rec := getJSON(r, "/api/me", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "ada@example.com", info["email"])
	assert.Equal(t, "Ada", info["full_name"])
	assert.Equal(t, "TEACHER", info["role"])
	assert.Equal(t, cookie.Value, info["id"])

	recAnon := getJSON(r, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, recAnon.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := registerUser(t, r, "Ada", "ada@example.com")

	rec := postForm(r, "/auth/logout", url.Values{}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
