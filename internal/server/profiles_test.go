package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func myProfile(t *testing.T, srv *Server, token string) map[string]any {
	t.Helper()
	w := doJSON(t, srv, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile, _ := decode(t, w).Data["profile"].(map[string]any)
	require.NotNil(t, profile)
	return profile
}

func TestMyProfileLazyCreation(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Alice", "alice@example.com")

	profile := myProfile(t, srv, token)
	assert.Equal(t, "Alice", profile["display_name"])
	assert.EqualValues(t, 0, profile["posts_count"])
	assert.EqualValues(t, 0, profile["tasks_count"])

	// Private view carries preference fields.
	assert.Contains(t, profile, "phone")
	assert.Contains(t, profile, "timezone")
	assert.Contains(t, profile, "email_notifications")

	// The login stamped by this request is already in the response.
	assert.NotNil(t, profile["last_login"])
}

func TestUpdateProfile(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Alice", "alice@example.com")

	w := doJSON(t, srv, http.MethodPut, "/api/users/profile", token, map[string]any{
		"bio":            "Backend developer",
		"phone":          "123-456-7890",
		"twitter_handle": "@alice",
		"skills":         "Go, SQL",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode(t, w).Data["profile"].(map[string]any)

	assert.Equal(t, "Backend developer", profile["bio"])
	assert.Equal(t, "123-456-7890", profile["phone"])
	assert.Equal(t, []any{"Go", "SQL"}, profile["skills"])

	links := profile["social_links"].(map[string]any)
	assert.Equal(t, "https://twitter.com/alice", links["twitter"])
}

func TestUpdateProfileValidation(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Alice", "alice@example.com")

	w := doJSON(t, srv, http.MethodPut, "/api/users/profile", token, map[string]any{
		"phone": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a valid phone number", decode(t, w).Error)

	w = doJSON(t, srv, http.MethodPut, "/api/users/profile", token, map[string]any{
		"website": "not-a-url",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPut, "/api/users/profile", token, map[string]any{
		"years_of_experience": 80,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicProfileView(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")
	registerUser(t, srv, "Bob", "bob@example.com")

	w := doJSON(t, srv, http.MethodPut, "/api/users/profile", alice, map[string]any{
		"phone": "1234567890",
		"bio":   "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)
	aliceID := int64(myProfile(t, srv, alice)["user_id"].(float64))

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/users/%d/profile", aliceID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	public := decode(t, w).Data["profile"].(map[string]any)

	assert.Equal(t, "hello", public["bio"])
	assert.NotContains(t, public, "phone")
	assert.NotContains(t, public, "timezone")
	assert.NotContains(t, public, "last_login")
	assert.EqualValues(t, 1, public["profile_views"])

	// A second visit counts another view.
	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/users/%d/profile", aliceID), "", nil)
	public = decode(t, w).Data["profile"].(map[string]any)
	assert.EqualValues(t, 2, public["profile_views"])
}

func TestPublicProfileUnknownUser(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/users/5/profile", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w).Error)
}

func uploadAvatar(t *testing.T, srv *Server, token, filename string, size int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xFF}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestUploadAvatar(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Alice", "alice@example.com")

	w := uploadAvatar(t, srv, token, "me.png", 1024)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode(t, w).Data["profile"].(map[string]any)
	avatarURL, _ := profile["avatar_url"].(string)
	assert.True(t, strings.HasPrefix(avatarURL, "/uploads/"))
	assert.True(t, strings.HasSuffix(avatarURL, ".png"))

	w = uploadAvatar(t, srv, token, "script.exe", 16)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file type. Allowed: JPG, PNG, GIF", decode(t, w).Error)

	w = uploadAvatar(t, srv, token, "huge.jpg", 2*1024*1024+1)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File too large. Maximum size: 2MB", decode(t, w).Error)
}

func TestSearchUsers(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice Smith", "alice@example.com")
	registerUser(t, srv, "Bob Jones", "bob@example.com")

	w := doJSON(t, srv, http.MethodPut, "/api/users/profile", alice, map[string]any{
		"job_title": "Senior Developer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/users/search?q=developer", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w).Data["count"])

	w = doJSON(t, srv, http.MethodGet, "/api/users/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search query (q) is required", decode(t, w).Error)
}

func TestLeaderboard(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")
	bob := registerUser(t, srv, "Bob", "bob@example.com")

	// Profiles exist once each user touches theirs.
	myProfile(t, srv, alice)
	myProfile(t, srv, bob)

	createPost(t, srv, bob, map[string]any{"title": "Bob's first post", "content": "c"})
	createPost(t, srv, bob, map[string]any{"title": "Bob's second post", "content": "c"})
	createPost(t, srv, alice, map[string]any{"title": "Alice's only post", "content": "c"})

	w := doJSON(t, srv, http.MethodGet, "/api/users/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data
	board := data["leaderboard"].([]any)
	require.Len(t, board, 2)

	first := board[0].(map[string]any)
	assert.Equal(t, "Bob", first["display_name"])
	assert.EqualValues(t, 1, first["rank"])
	assert.EqualValues(t, 2, first["posts_count"])
}
