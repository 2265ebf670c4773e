package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
	"tush00nka/utransfer/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

// Константы
const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 4 * 1024
	maxSendChannelSize = 64
	defaultMaxClients  = 256
)

// Типы событий
const (
	EventTypeUpdate  = "update"
	EventTypeRefresh = "refresh"
	EventTypeError   = "error"
)

// OutEvent исходящее событие
type OutEvent struct {
	Type      string             `json:"type"`
	Files     []model.FileRecord `json:"files"`
	Message   string             `json:"message,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// InEvent входящее событие
type InEvent struct {
	Type string `json:"type"`
}

// HubOptions опции хаба
type HubOptions struct {
	MaxClients int
}

// Metrics метрики
type Metrics struct {
	Broadcasts   atomic.Int64
	MessagesSent atomic.Int64
	Dropped      atomic.Int64
	Connections  atomic.Int64
}

// Hub держит все подключения и рассылает им список файлов.
// Все изменения набора клиентов происходят в горутине run.
type Hub struct {
	snapshot func() []model.FileRecord
	options  HubOptions

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	refresh    chan *Client
	shutdown   chan struct{}
	done       chan struct{}
	closeOnce  sync.Once

	active  atomic.Int32
	metrics Metrics
}

// NewHub создает новый хаб. snapshot возвращает текущий список файлов
// и вызывается для каждого нового клиента.
func NewHub(snapshot func() []model.FileRecord, options ...HubOptions) *Hub {
	opts := HubOptions{
		MaxClients: defaultMaxClients,
	}

	if len(options) > 0 {
		opts = options[0]
	}

	hub := &Hub{
		snapshot:   snapshot,
		options:    opts,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, maxSendChannelSize),
		refresh:    make(chan *Client, maxSendChannelSize),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}

	go hub.run()

	return hub
}

// run запускает обработчик хаба
func (h *Hub) run() {
	defer func() {
		// Закрываем все клиентские соединения при остановке
		for id, client := range h.clients {
			client.Close()
			delete(h.clients, id)
		}
		h.active.Store(0)
		close(h.done)
	}()

	for {
		select {
		case <-h.shutdown:
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case message := <-h.broadcast:
			h.handleBroadcast(message)
		case client := <-h.refresh:
			if _, ok := h.clients[client.ID]; ok {
				h.sendSnapshot(client)
			}
		}
	}
}

// handleRegister обрабатывает регистрацию клиента
func (h *Hub) handleRegister(client *Client) {
	// Проверяем, не превышен ли лимит
	if len(h.clients) >= h.options.MaxClients {
		client.SendJSON(OutEvent{
			Type:      EventTypeError,
			Message:   "too many clients",
			Timestamp: time.Now(),
		})
		// WritePump допишет ошибку и закроет соединение
		client.CloseSend()
		return
	}

	h.clients[client.ID] = client
	h.active.Inc()
	h.metrics.Connections.Inc()

	// Новый клиент сразу получает текущий список
	h.sendSnapshot(client)
}

// handleUnregister обрабатывает отключение клиента
func (h *Hub) handleUnregister(client *Client) {
	if stored, ok := h.clients[client.ID]; ok && stored == client {
		delete(h.clients, client.ID)
		h.active.Dec()
	}
	client.Close()
}

// handleBroadcast обрабатывает рассылку. Клиент с переполненной очередью
// отключается: после переподключения он получит свежий список.
func (h *Hub) handleBroadcast(message []byte) {
	for id, client := range h.clients {
		if client.SendRaw(message) {
			h.metrics.MessagesSent.Inc()
			continue
		}
		log.Printf("ws: dropping slow client %s", id)
		h.metrics.Dropped.Inc()
		delete(h.clients, id)
		h.active.Dec()
		client.Close()
	}
}

func (h *Hub) sendSnapshot(client *Client) {
	if client.SendJSON(updateEvent(h.snapshot())) {
		h.metrics.MessagesSent.Inc()
	}
}

// Register регистрирует клиента. После остановки хаба клиент закрывается.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.shutdown:
		client.Close()
	}
}

// Unregister отключает клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.shutdown:
		client.Close()
	}
}

// Broadcast отправляет полный список файлов всем клиентам.
// Порядок вызовов сохраняется при доставке.
func (h *Hub) Broadcast(files []model.FileRecord) {
	data, err := json.Marshal(updateEvent(files))
	if err != nil {
		log.Printf("hub: failed to marshal broadcast message: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
		h.metrics.Broadcasts.Inc()
	case <-h.shutdown:
	}
}

// HandleIncoming обрабатывает входящие события клиента
func (h *Hub) HandleIncoming(client *Client, ev InEvent) {
	switch ev.Type {
	case EventTypeRefresh:
		select {
		case h.refresh <- client:
		case <-h.shutdown:
		default:
			// очередь переполнена, ближайшая рассылка всё равно придёт
		}
	default:
		client.SendJSON(OutEvent{
			Type:      EventTypeError,
			Message:   "unknown event type",
			Timestamp: time.Now(),
		})
	}
}

// Clients возвращает количество подключённых клиентов
func (h *Hub) Clients() int {
	return int(h.active.Load())
}

func (h *Hub) Metrics() *Metrics {
	return &h.metrics
}

// Shutdown останавливает хаб и закрывает все соединения
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.shutdown)
	})
	<-h.done
}

func updateEvent(files []model.FileRecord) OutEvent {
	if files == nil {
		files = []model.FileRecord{}
	}
	return OutEvent{
		Type:      EventTypeUpdate,
		Files:     files,
		Timestamp: time.Now(),
	}
}

// Client представляет WebSocket соединение
type Client struct {
	ID       string
	ctx      context.Context
	cancel   context.CancelFunc
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.RWMutex
	isClosed bool
	// sendClosed: очередь закрыта, соединение ещё живо
	sendClosed bool
}

// NewClient создает нового клиента
func NewClient(ctx context.Context, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(ctx)

	return &Client{
		ID:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		conn:   conn,
		send:   make(chan []byte, maxSendChannelSize),
	}
}

// ReadPump читает сообщения от клиента до разрыва соединения
func (c *Client) ReadPump(handleIncoming func(*Client, InEvent)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev InEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure) {
				log.Printf("client read error: %v", err)
			}
			return
		}

		handleIncoming(c, ev)
	}
}

// WritePump отправляет сообщения клиенту, по одному на кадр
func (c *Client) WritePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				// Канал закрыт
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return err
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// SendJSON отправляет JSON сообщение
func (c *Client) SendJSON(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("client marshal error: %v", err)
		return false
	}

	return c.SendRaw(data)
}

// SendRaw ставит данные в очередь. false, если клиент закрыт или очередь полна.
func (c *Client) SendRaw(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isClosed || c.sendClosed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close закрывает соединение
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return
	}

	c.isClosed = true
	c.cancel()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
	c.conn.Close()
}

// CloseSend закрывает очередь отправки. WritePump отправит то, что уже в
// очереди, затем CloseMessage, и закроет соединение.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed || c.sendClosed {
		return
	}

	c.sendClosed = true
	close(c.send)
}

// IsClosed проверяет, закрыто ли соединение
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isClosed
}
