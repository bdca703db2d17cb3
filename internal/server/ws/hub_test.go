package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type fakeState struct {
	Turn int `json:"turn"`
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(func(id string) (any, error) {
		if id != "g1" {
			return nil, errors.New("game not found")
		}
		return fakeState{Turn: 1}, nil
	})
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, gameID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?game_id=" + gameID
	return websocket.DefaultDialer.Dial(url, nil)
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestSubscribeReceivesStateAndUpdates(t *testing.T) {
	hub, srv := newTestServer(t)
	conn, _, err := dial(t, srv, "g1")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Type != "state" || first.GameID != "g1" {
		t.Fatalf("first message %+v", first)
	}
	var st fakeState
	if err := json.Unmarshal(first.Payload, &st); err != nil || st.Turn != 1 {
		t.Fatalf("initial payload %s (%v)", first.Payload, err)
	}
	if n := hub.Subscribers("g1"); n != 1 {
		t.Fatalf("subscribers got=%d want=1", n)
	}

	hub.Publish("g1", fakeState{Turn: 2})
	hub.Publish("other", fakeState{Turn: 99})
	update := readMessage(t, conn)
	if err := json.Unmarshal(update.Payload, &st); err != nil || st.Turn != 2 {
		t.Fatalf("update payload %s (%v)", update.Payload, err)
	}
}

func TestPingAndStateRequests(t *testing.T) {
	_, srv := newTestServer(t)
	conn, _, err := dial(t, srv, "g1")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)

	if err := conn.WriteJSON(Message{Type: "ping", ID: "1"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != "pong" || msg.ID != "1" {
		t.Fatalf("got %+v, want pong", msg)
	}

	if err := conn.WriteJSON(Message{Type: "state", ID: "2"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != "state" || msg.ID != "2" {
		t.Fatalf("got %+v, want state", msg)
	}

	if err := conn.WriteJSON(Message{Type: "move", ID: "3"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != "error" || msg.ID != "3" {
		t.Fatalf("got %+v, want error", msg)
	}
}

func TestUnknownGameRejected(t *testing.T) {
	_, srv := newTestServer(t)
	_, resp, err := dial(t, srv, "nope")
	if err == nil {
		t.Fatalf("dial to an unknown game succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("response %v, want 404", resp)
	}
}

func TestDisconnectUnsubscribes(t *testing.T) {
	hub, srv := newTestServer(t)
	conn, _, err := dial(t, srv, "g1")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readMessage(t, conn)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("g1") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
	// 没有订阅者时发布不会阻塞
	hub.Publish("g1", fakeState{Turn: 3})
}

func TestDropClosesGameSubscribers(t *testing.T) {
	hub, srv := newTestServer(t)
	conn, _, err := dial(t, srv, "g1")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)

	hub.Drop("g1")
	if n := hub.Subscribers("g1"); n != 0 {
		t.Fatalf("subscribers got=%d want=0", n)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("connection still open after drop, got %+v", msg)
	}
	// 再 Drop 一次不会重复关闭
	hub.Drop("g1")
}
