package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
	"github.com/SuperDex7/FeatureMe-sub000/models"
)

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial (status %d): %v", status, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips frames until one with the wanted action arrives.
func readUntil(t *testing.T, conn *websocket.Conn, action string) controllers.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var frame controllers.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("waiting for %q: %v", action, err)
		}
		if frame.Action == action {
			return frame
		}
	}
}

// waitOnline blocks until the hub has registered user.
func waitOnline(t *testing.T, app *testApp, user *models.User) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !app.hub.Online(user.ID) {
		if time.Now().After(deadline) {
			t.Fatalf("%s never came online", user.Username)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func openChat(t *testing.T, app *testApp, a, b *models.User) string {
	t.Helper()
	w := app.json(http.MethodPost, "/api/chats", app.token(t, a), map[string]string{"userId": b.ID.Hex()})
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Data struct {
			ID string `json:"_id"`
		} `json:"data"`
	}
	decode(t, w, &resp)
	return resp.Data.ID
}

func TestChatRelay(t *testing.T) {
	app := newTestApp(t)
	alice := app.repos.SeedUser(t, "alice")
	bob := app.repos.SeedUser(t, "bob")
	chatID := openChat(t, app, alice, bob)

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	aliceConn := dial(t, srv, app.token(t, alice))
	waitOnline(t, app, alice)
	bobConn := dial(t, srv, app.token(t, bob))

	online := readUntil(t, aliceConn, controllers.ActionOnline)
	if online.UserID != bob.ID.Hex() {
		t.Fatalf("online frame for %s, want bob", online.UserID)
	}
	user, _ := app.repos.Users.FindByID(context.Background(), bob.ID)
	if !user.IsActive {
		t.Error("bob not marked active")
	}

	if err := aliceConn.WriteJSON(map[string]string{"action": "send", "chatId": chatID, "content": "yo"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := readUntil(t, bobConn, controllers.ActionSend)
	if got.Message == nil || got.Message.Content != "yo" || got.Message.Sender != alice.ID {
		t.Fatalf("bob got %+v", got.Message)
	}
	echo := readUntil(t, aliceConn, controllers.ActionSend)
	if echo.Message.ID != got.Message.ID {
		t.Error("sender did not get its own message back")
	}

	if err := bobConn.WriteJSON(map[string]string{"action": "delete", "messageId": got.Message.ID.Hex()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if frame := readUntil(t, bobConn, controllers.ActionError); !strings.Contains(frame.Error, "not allowed") {
		t.Errorf("deleting someone else's message: %q", frame.Error)
	}

	w := app.json(http.MethodDelete, "/api/messages/"+got.Message.ID.Hex(), app.token(t, alice), nil)
	expectStatus(t, w, http.StatusOK)
	if deleted := readUntil(t, bobConn, controllers.ActionDelete); deleted.Message.ID != got.Message.ID {
		t.Errorf("delete relayed for %s", deleted.Message.ID.Hex())
	}

	bobConn.Close()
	offline := readUntil(t, aliceConn, controllers.ActionOffline)
	if offline.UserID != bob.ID.Hex() {
		t.Errorf("offline frame for %s, want bob", offline.UserID)
	}
}

func TestChatRejectsBadFrames(t *testing.T) {
	app := newTestApp(t)
	alice := app.repos.SeedUser(t, "alice")
	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	conn := dial(t, srv, app.token(t, alice))
	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	if frame := readUntil(t, conn, controllers.ActionError); frame.Error != "malformed frame" {
		t.Errorf("error = %q", frame.Error)
	}
	conn.WriteJSON(map[string]string{"action": "send", "chatId": "65a000000000000000000000", "content": "hi"})
	if frame := readUntil(t, conn, controllers.ActionError); frame.Error != "not found" {
		t.Errorf("error = %q", frame.Error)
	}
}

func TestWebsocketRequiresAuth(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial without token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("resp = %v", resp)
	}
}

func TestChatMessagesREST(t *testing.T) {
	app := newTestApp(t)
	alice := app.repos.SeedUser(t, "alice")
	bob := app.repos.SeedUser(t, "bob")
	carol := app.repos.SeedUser(t, "carol")
	chatID := openChat(t, app, alice, bob)

	for _, text := range []string{"one", "two"} {
		w := app.json(http.MethodPost, "/api/chats/"+chatID+"/messages", app.token(t, alice), map[string]string{"content": text})
		expectStatus(t, w, http.StatusCreated)
	}
	w := app.do(request{method: http.MethodGet, path: "/api/chats/" + chatID + "/messages?limit=10", token: app.token(t, bob)})
	expectStatus(t, w, http.StatusOK)
	var page struct {
		Data []models.Message `json:"data"`
	}
	decode(t, w, &page)
	if len(page.Data) != 2 {
		t.Errorf("messages = %d, want 2", len(page.Data))
	}

	expectStatus(t, app.do(request{method: http.MethodGet, path: "/api/chats/" + chatID + "/messages", token: app.token(t, carol)}), http.StatusForbidden)

	w = app.do(request{method: http.MethodGet, path: "/api/chats", token: app.token(t, bob)})
	expectStatus(t, w, http.StatusOK)
}
