package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUsername(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "alice")

	tests := []struct {
		name      string
		username  string
		available bool
	}{
		{"Free username", "bob", true},
		{"Taken username", "alice", false},
		{"Taken after normalization", "  ALICE  ", false},
		{"Malformed username is never available", "a!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/users/check-username",
				map[string]string{"username": tt.username}, "")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, tt.available, body["available"])
		})
	}
}

func TestCheckEmail(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "alice")

	tests := []struct {
		name      string
		email     string
		available bool
	}{
		{"Free email", "bob@example.com", true},
		{"Taken email", "alice@example.com", false},
		{"Invalid email is never available", "not-an-email", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/users/check-email",
				map[string]string{"email": tt.email}, "")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, tt.available, body["available"])
		})
	}
}

func TestMe(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "alice")

	t.Run("Returns the authenticated user", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users/me", nil, token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "alice", user["username"])
	})

	t.Run("Rejects anonymous requests", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users/me", nil, "")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProfileScreens(t *testing.T) {
	app, _ := newTestApp(t)
	aliceToken := registerUser(t, app, "alice")
	bobToken := registerUser(t, app, "bob")

	// bob and dave follow alice; alice follows bob.
	for _, f := range []struct{ token, target string }{
		{bobToken, "alice"},
		{registerUser(t, app, "dave"), "alice"},
		{aliceToken, "bob"},
	} {
		req := jsonRequest(t, http.MethodPost, "/api/follows/"+f.target, nil, f.token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	createPost(t, app, aliceToken, "Hello", "First post")

	t.Run("Posts screen with counts", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/profile/alice", nil, bobToken)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "alice", user["username"])
		assert.Contains(t, user["avatar"], "gravatar.com/avatar/")

		counts := body["counts"].(map[string]interface{})
		assert.Equal(t, float64(1), counts["posts"])
		assert.Equal(t, float64(2), counts["followers"])
		assert.Equal(t, float64(1), counts["following"])

		assert.Equal(t, true, body["is_following"])
		assert.Equal(t, false, body["is_own_profile"])
		assert.Len(t, body["posts"], 1)
	})

	t.Run("Own profile", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/profile/alice", nil, aliceToken)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["is_own_profile"])
		assert.Equal(t, false, body["is_following"])
	})

	t.Run("Anonymous visitor", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/profile/alice", nil, "")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["is_following"])
		assert.Equal(t, false, body["is_own_profile"])
	})

	t.Run("Followers screen lists edges in insertion order", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/profile/alice/followers", nil, "")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body := decodeBody(t, resp)
		followers := body["followers"].([]interface{})
		require.Len(t, followers, 2)
		assert.Equal(t, "bob", followers[0].(map[string]interface{})["username"])
		assert.Equal(t, "dave", followers[1].(map[string]interface{})["username"])
	})

	t.Run("Following screen", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/profile/alice/following", nil, "")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body := decodeBody(t, resp)
		following := body["following"].([]interface{})
		require.Len(t, following, 1)
		assert.Equal(t, "bob", following[0].(map[string]interface{})["username"])
	})

	t.Run("Unknown profile", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/profile/nobody", nil, "")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
