package controllers_test

import (
	"net/http"
	"testing"
)

type postResponse struct {
	Data struct {
		ID        string   `json:"_id"`
		Files     []string `json:"files"`
		Likes     int64    `json:"likes"`
		Comments  int64    `json:"comments"`
		Views     int64    `json:"views"`
		LikedByMe bool     `json:"likedByMe"`
	} `json:"data"`
}

func TestPostLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := app.repos.SeedUser(t, "alice")
	bob := app.repos.SeedUser(t, "bob")
	aliceToken, bobToken := app.token(t, alice), app.token(t, bob)

	body, ctype := multipartBody(t, map[string]string{
		"title":    "Late Night",
		"genres":   "rnb, soul",
		"features": "bob",
	}, "files", "audio/mpeg", map[string]string{"track.mp3": "mp3-bytes"})
	w := app.do(request{method: http.MethodPost, path: "/api/posts", token: aliceToken, body: body, ctype: ctype})
	expectStatus(t, w, http.StatusCreated)
	var created postResponse
	decode(t, w, &created)
	postPath := "/api/posts/" + created.Data.ID
	if len(created.Data.Files) != 1 {
		t.Fatalf("files = %v", created.Data.Files)
	}

	expectStatus(t, app.json(http.MethodPost, postPath+"/like", bobToken, nil), http.StatusOK)
	expectStatus(t, app.json(http.MethodPost, postPath+"/comments", bobToken, map[string]string{"text": "hard"}), http.StatusCreated)
	expectStatus(t, app.json(http.MethodPost, postPath+"/view", bobToken, nil), http.StatusOK)

	w = app.do(request{method: http.MethodGet, path: postPath + "/files/" + created.Data.Files[0], token: bobToken})
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "mp3-bytes" || w.Header().Get("Content-Disposition") == "" {
		t.Errorf("download = %q, disposition %q", w.Body.String(), w.Header().Get("Content-Disposition"))
	}

	w = app.do(request{method: http.MethodGet, path: postPath, token: bobToken})
	expectStatus(t, w, http.StatusOK)
	var got postResponse
	decode(t, w, &got)
	if got.Data.Likes != 1 || got.Data.Comments != 1 || got.Data.Views != 1 || !got.Data.LikedByMe {
		t.Errorf("details = %+v", got.Data)
	}

	expectStatus(t, app.json(http.MethodDelete, postPath, bobToken, nil), http.StatusForbidden)
	expectStatus(t, app.json(http.MethodDelete, postPath, aliceToken, nil), http.StatusOK)
	expectStatus(t, app.do(request{method: http.MethodGet, path: postPath}), http.StatusNotFound)
	expectStatus(t, app.do(request{method: http.MethodGet, path: "/api/files/" + created.Data.Files[0]}), http.StatusNotFound)
}

func TestPostErrors(t *testing.T) {
	app := newTestApp(t)
	alice := app.repos.SeedUser(t, "alice")
	token := app.token(t, alice)

	expectStatus(t, app.do(request{method: http.MethodGet, path: "/api/posts/not-an-id"}), http.StatusBadRequest)
	expectStatus(t, app.do(request{method: http.MethodGet, path: "/api/posts/65a000000000000000000000"}), http.StatusNotFound)
	expectStatus(t, app.json(http.MethodPost, "/api/posts", "", nil), http.StatusUnauthorized)

	body, ctype := multipartBody(t, map[string]string{"title": ""}, "files", "audio/mpeg", nil)
	w := app.do(request{method: http.MethodPost, path: "/api/posts", token: token, body: body, ctype: ctype})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestFeedAndNotifications(t *testing.T) {
	app := newTestApp(t)
	alice := app.repos.SeedUser(t, "alice")
	bob := app.repos.SeedUser(t, "bob")
	aliceToken, bobToken := app.token(t, alice), app.token(t, bob)

	expectStatus(t, app.json(http.MethodPost, "/api/relations/"+bob.ID.Hex()+"/toggle", aliceToken, nil), http.StatusOK)

	body, ctype := multipartBody(t, map[string]string{"title": "new drop"}, "files", "audio/mpeg", nil)
	expectStatus(t, app.do(request{method: http.MethodPost, path: "/api/posts", token: bobToken, body: body, ctype: ctype}), http.StatusCreated)

	w := app.do(request{method: http.MethodGet, path: "/api/posts/feed", token: aliceToken})
	expectStatus(t, w, http.StatusOK)
	var feed struct {
		Data []map[string]any `json:"data"`
	}
	decode(t, w, &feed)
	if len(feed.Data) != 1 || feed.Data[0]["title"] != "new drop" {
		t.Errorf("feed = %v", feed.Data)
	}

	w = app.do(request{method: http.MethodGet, path: "/api/notifications", token: bobToken})
	expectStatus(t, w, http.StatusOK)
	var notes struct {
		Data   []map[string]any `json:"data"`
		Unread int              `json:"unread"`
	}
	decode(t, w, &notes)
	if len(notes.Data) != 1 || notes.Data[0]["type"] != "follow" || notes.Unread != 1 {
		t.Errorf("notifications = %+v", notes)
	}

	expectStatus(t, app.json(http.MethodPut, "/api/notifications/read", bobToken, nil), http.StatusOK)
	w = app.do(request{method: http.MethodGet, path: "/api/notifications", token: bobToken})
	decode(t, w, &notes)
	if notes.Unread != 0 {
		t.Errorf("unread after mark = %d", notes.Unread)
	}
}
