package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/ratelimit"
	"github.com/SuperDex7/FeatureMe-sub000/routes"
	"github.com/SuperDex7/FeatureMe-sub000/testutil"
)

var secret = []byte("controller-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	hub    *controllers.ChatHub
	repos  *testutil.Repos
	redis  *miniredis.Miniredis
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repos := testutil.NewRepos()
	stores := routes.Stores{
		Users:     repos.Users,
		Posts:     repos.Posts,
		Comments:  repos.Comments,
		Likes:     repos.Likes,
		Views:     repos.Views,
		Downloads: repos.Downloads,
		Relations: repos.Relations,
		Chats:     repos.Chats,
		Messages:  repos.Messages,
		Demos:     repos.Demos,
		Codes:     repos.Codes,
		Files:     repos.Files,
		Mailer:    repos.Mailer,
	}
	router, hub := routes.Build(stores, ratelimit.NewLimiter(client), routes.Settings{
		Secret:         secret,
		TokenTTL:       time.Hour,
		MaxUploadBytes: 1 << 20,
	})
	t.Cleanup(hub.Close)
	return &testApp{router: router, hub: hub, repos: repos, redis: mr}
}

func (a *testApp) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := helper.GenerateToken(secret, *user, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

type request struct {
	method  string
	path    string
	token   string
	body    io.Reader
	ctype   string
	remote  string
	cookies []*http.Cookie
}

func (a *testApp) do(r request) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.remote != "" {
		req.RemoteAddr = r.remote
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) json(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	return a.do(request{method: method, path: path, token: token, body: r, ctype: "application/json"})
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
}

// multipartBody builds a form with the given fields and one file per entry
// of files, all under fileField with content type fileType.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileType string, files map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, name))
		header.Set("Content-Type", fileType)
		fw, err := mw.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}
