package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"tush00nka/utransfer/internal/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileList struct {
	mu    sync.Mutex
	files []model.FileRecord
}

func (l *fileList) set(files ...model.FileRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files = files
}

func (l *fileList) snapshot() []model.FileRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.FileRecord(nil), l.files...)
}

// newTestServer поднимает сервер с тем же жизненным циклом клиента, что и у
// обработчика /ws. Без writer клиент не получает ничего из очереди.
func newTestServer(t *testing.T, hub *Hub, writer bool) *httptest.Server {
	t.Helper()
	upgrader := NewUpgrader(nil, true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(context.Background(), conn)
		if writer {
			go client.WritePump()
		}

		hub.Register(client)
		defer hub.Unregister(client)

		client.ReadPump(hub.HandleIncoming)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) OutEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev OutEvent
	require.NoError(t, json.Unmarshal(data, &ev), "one JSON document per frame")
	return ev
}

func TestHub_SnapshotOnConnect(t *testing.T) {
	list := &fileList{}
	list.set(model.FileRecord{Name: "a.txt", Stored: "1-a.txt", PIN: "1234"})
	hub := NewHub(list.snapshot)
	defer hub.Shutdown()
	srv := newTestServer(t, hub, true)

	conn := dial(t, srv)
	ev := readEvent(t, conn)

	assert.Equal(t, EventTypeUpdate, ev.Type)
	require.Len(t, ev.Files, 1)
	assert.Equal(t, "1-a.txt", ev.Files[0].Stored)
	assert.Empty(t, ev.Files[0].PIN)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestHub_EmptyListIsArray(t *testing.T) {
	hub := NewHub(func() []model.FileRecord { return nil })
	defer hub.Shutdown()
	srv := newTestServer(t, hub, true)

	conn := dial(t, srv)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	assert.Contains(t, string(data), `"files":[]`)
	assert.NotContains(t, string(data), "pin")
}

func TestHub_BroadcastInOrder(t *testing.T) {
	list := &fileList{}
	hub := NewHub(list.snapshot)
	defer hub.Shutdown()
	srv := newTestServer(t, hub, true)

	first := dial(t, srv)
	second := dial(t, srv)
	readEvent(t, first)
	readEvent(t, second)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	a := model.FileRecord{Name: "a", Stored: "1-a"}
	b := model.FileRecord{Name: "b", Stored: "2-b"}
	hub.Broadcast([]model.FileRecord{a})
	hub.Broadcast([]model.FileRecord{a, b})
	hub.Broadcast([]model.FileRecord{b})

	for _, conn := range []*websocket.Conn{first, second} {
		assert.Equal(t, []model.FileRecord{a}, readEvent(t, conn).Files)
		assert.Equal(t, []model.FileRecord{a, b}, readEvent(t, conn).Files)
		assert.Equal(t, []model.FileRecord{b}, readEvent(t, conn).Files)
	}
	assert.Equal(t, int64(3), hub.Metrics().Broadcasts.Load())
}

func TestHub_Refresh(t *testing.T) {
	list := &fileList{}
	hub := NewHub(list.snapshot)
	defer hub.Shutdown()
	srv := newTestServer(t, hub, true)

	conn := dial(t, srv)
	assert.Empty(t, readEvent(t, conn).Files)

	list.set(model.FileRecord{Name: "late.txt", Stored: "5-late.txt"})
	require.NoError(t, conn.WriteJSON(InEvent{Type: EventTypeRefresh}))

	ev := readEvent(t, conn)
	assert.Equal(t, EventTypeUpdate, ev.Type)
	require.Len(t, ev.Files, 1)
	assert.Equal(t, "late.txt", ev.Files[0].Name)
}

func TestHub_UnknownEvent(t *testing.T) {
	hub := NewHub(func() []model.FileRecord { return nil })
	defer hub.Shutdown()
	srv := newTestServer(t, hub, true)

	conn := dial(t, srv)
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(InEvent{Type: "upload"}))
	ev := readEvent(t, conn)
	assert.Equal(t, EventTypeError, ev.Type)
	assert.Equal(t, "unknown event type", ev.Message)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := NewHub(func() []model.FileRecord { return nil })
	defer hub.Shutdown()
	srv := newTestServer(t, hub, true)

	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(func() []model.FileRecord { return nil })
	defer hub.Shutdown()
	srv := newTestServer(t, hub, false)

	dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	// снимок уже занял одно место в очереди
	for i := 0; i < maxSendChannelSize; i++ {
		hub.Broadcast(nil)
	}

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), hub.Metrics().Dropped.Load())
}

func TestHub_MaxClients(t *testing.T) {
	hub := NewHub(func() []model.FileRecord { return nil }, HubOptions{MaxClients: 1})
	defer hub.Shutdown()
	srv := newTestServer(t, hub, true)

	first := dial(t, srv)
	readEvent(t, first)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	second := dial(t, srv)
	ev := readEvent(t, second)
	assert.Equal(t, EventTypeError, ev.Type)
	assert.Equal(t, "too many clients", ev.Message)

	// затем сервер закрывает соединение
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := second.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "got %v", err)
	assert.Equal(t, 1, hub.Clients())
}

func TestClient_CloseSendFlushesQueue(t *testing.T) {
	upgrader := NewUpgrader(nil, true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(context.Background(), conn)
		go client.WritePump()

		client.SendJSON(updateEvent([]model.FileRecord{{Name: "a", Stored: "1-a"}}))
		client.CloseSend()
		assert.False(t, client.SendRaw([]byte("late")))

		client.ReadPump(func(*Client, InEvent) {})
	}))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	ev := readEvent(t, conn)
	require.Len(t, ev.Files, 1)
	assert.Equal(t, "1-a", ev.Files[0].Stored)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "got %v", err)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub(func() []model.FileRecord { return nil })
	srv := newTestServer(t, hub, true)

	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Shutdown()
	assert.Equal(t, 0, hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// повторный вызов и рассылка после остановки не блокируют
	hub.Shutdown()
	hub.Broadcast(nil)
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		host    string
		allowed []string
		want    bool
	}{
		{name: "no origin", host: "192.168.1.2:5000", want: true},
		{name: "same host", origin: "http://192.168.1.2:5000", host: "192.168.1.2:5000", want: true},
		{name: "listed", origin: "http://share.lan", host: "192.168.1.2:5000", allowed: []string{"http://share.lan"}, want: true},
		{name: "foreign", origin: "http://evil.example", host: "192.168.1.2:5000", want: false},
		{name: "malformed", origin: "::", host: "192.168.1.2:5000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originAllowed(r, tt.allowed))
		})
	}
}
