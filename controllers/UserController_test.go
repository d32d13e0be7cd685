package controllers_test

import (
	"net/http"
	"testing"

	"github.com/SuperDex7/FeatureMe-sub000/middlewares"
)

func TestSignUpLoginAndMe(t *testing.T) {
	app := newTestApp(t)

	w := app.json(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	expectStatus(t, w, http.StatusCreated)

	w = app.json(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})
	expectStatus(t, w, http.StatusConflict)

	w = app.json(http.MethodPost, "/api/auth/login", "", map[string]string{"login": "alice", "password": "password123"})
	expectStatus(t, w, http.StatusOK)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.TokenCookie {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("token cookie = %+v", cookie)
	}

	w = app.do(request{method: http.MethodGet, path: "/api/users/me", cookies: []*http.Cookie{cookie}})
	expectStatus(t, w, http.StatusOK)
	var me struct {
		Data map[string]any `json:"data"`
	}
	decode(t, w, &me)
	if me.Data["username"] != "alice" {
		t.Errorf("me = %v", me.Data)
	}
	if _, leaked := me.Data["password"]; leaked {
		t.Error("password hash serialized")
	}

	expectStatus(t, app.do(request{method: http.MethodGet, path: "/api/users/me"}), http.StatusUnauthorized)
}

func TestLoginRateLimited(t *testing.T) {
	app := newTestApp(t)
	app.repos.SeedUser(t, "alice")

	body := map[string]string{"login": "alice", "password": "wrong-password"}
	for i := 0; i < 5; i++ {
		w := app.json(http.MethodPost, "/api/auth/login", "", body)
		expectStatus(t, w, http.StatusUnauthorized)
	}
	w := app.json(http.MethodPost, "/api/auth/login", "", body)
	expectStatus(t, w, http.StatusTooManyRequests)
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}

	// the limiter fails open when redis goes away
	app.redis.Close()
	w = app.json(http.MethodPost, "/api/auth/login", "", body)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t)
	app.json(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	expectStatus(t, app.json(http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "alice@example.com"}), http.StatusOK)
	code := app.repos.Mailer.LastCode("alice@example.com")

	w := app.json(http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"email": "alice@example.com", "code": code, "newPassword": "fresh-password",
	})
	expectStatus(t, w, http.StatusOK)

	w = app.json(http.MethodPost, "/api/auth/login", "", map[string]string{"login": "alice@example.com", "password": "fresh-password"})
	expectStatus(t, w, http.StatusOK)
}

func TestProfileAndAvatar(t *testing.T) {
	app := newTestApp(t)
	alice := app.repos.SeedUser(t, "alice")
	token := app.token(t, alice)

	body, ctype := multipartBody(t, nil, "file", "image/png", map[string]string{"me.png": "png-bytes"})
	w := app.do(request{method: http.MethodPost, path: "/api/users/me/avatar", token: token, body: body, ctype: ctype})
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Data struct {
			ProfilePic string `json:"profilePic"`
		} `json:"data"`
	}
	decode(t, w, &resp)

	w = app.do(request{method: http.MethodGet, path: "/api/files/" + resp.Data.ProfilePic})
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "png-bytes" || w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("file = %q (%s)", w.Body.String(), w.Header().Get("Content-Type"))
	}

	expectStatus(t, app.do(request{method: http.MethodGet, path: "/api/users/alice"}), http.StatusOK)
	expectStatus(t, app.do(request{method: http.MethodGet, path: "/api/users/nobody"}), http.StatusNotFound)
}
