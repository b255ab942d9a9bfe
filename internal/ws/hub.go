package ws

import (
	"encoding/json"
	"sync"

	"go-ppm-dashboard/internal/metrics"
	"go-ppm-dashboard/pkg/logger"
)

// TextMessage matches the websocket text frame opcode
const TextMessage = 1

// Conn is the part of a websocket connection the hub writes to.
// *websocket.Conn from gofiber/contrib/websocket satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Subscription binds a connection to a topic (a dashboard session id)
type Subscription struct {
	Topic string
	Conn  Conn
}

// Message is delivered to every connection subscribed to Topic
type Message struct {
	Topic string
	Data  []byte
}

// Envelope is the JSON frame sent to browsers
type Envelope struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type Hub struct {
	Clients    map[string]map[Conn]bool
	Register   chan Subscription
	Unregister chan Subscription
	Broadcast  chan Message
	done       chan struct{}
	mutex      sync.Mutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		Clients:    make(map[string]map[Conn]bool),
		Register:   make(chan Subscription),
		Unregister: make(chan Subscription),
		Broadcast:  make(chan Message, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.Register:
			h.mutex.Lock()
			if h.Clients[sub.Topic] == nil {
				h.Clients[sub.Topic] = make(map[Conn]bool)
			}
			h.Clients[sub.Topic][sub.Conn] = true
			h.mutex.Unlock()
			metrics.WSClients.Inc()
			h.log.Debug("ws client subscribed", "topic", sub.Topic)

		case sub := <-h.Unregister:
			h.mutex.Lock()
			h.remove(sub.Topic, sub.Conn)
			h.mutex.Unlock()

		case msg := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients[msg.Topic] {
				if err := conn.WriteMessage(TextMessage, msg.Data); err != nil {
					h.log.Warn("ws write failed, dropping client", "topic", msg.Topic, "error", err)
					h.remove(msg.Topic, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for topic, conns := range h.Clients {
				for conn := range conns {
					h.remove(topic, conn)
				}
			}
			h.mutex.Unlock()
			return
		}
	}
}

// remove must be called with mutex held
func (h *Hub) remove(topic string, conn Conn) {
	conns, ok := h.Clients[topic]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.Clients, topic)
	}
	conn.Close()
	metrics.WSClients.Dec()
}

// Publish encodes an event envelope and queues it for the topic's clients.
// It never blocks the caller: a full queue drops the frame.
func (h *Hub) Publish(topic, event string, payload any) {
	msg, err := json.Marshal(Envelope{Type: "dashboard_event", Session: topic, Event: event, Payload: payload})
	if err != nil {
		h.log.Error("ws marshal failed", "event", event, "error", err)
		return
	}
	select {
	case h.Broadcast <- Message{Topic: topic, Data: msg}:
	default:
		h.log.Warn("ws broadcast queue full, dropping frame", "topic", topic, "event", event)
	}
}

// Subscribe registers conn for topic; a stopped hub ignores it.
func (h *Hub) Subscribe(topic string, conn Conn) {
	select {
	case h.Register <- Subscription{Topic: topic, Conn: conn}:
	case <-h.done:
	}
}

func (h *Hub) Unsubscribe(topic string, conn Conn) {
	select {
	case h.Unregister <- Subscription{Topic: topic, Conn: conn}:
	case <-h.done:
	}
}

// CloseTopic disconnects every client of topic.
func (h *Hub) CloseTopic(topic string) {
	h.mutex.Lock()
	subs := make([]Subscription, 0, len(h.Clients[topic]))
	for conn := range h.Clients[topic] {
		subs = append(subs, Subscription{Topic: topic, Conn: conn})
	}
	h.mutex.Unlock()
	for _, sub := range subs {
		select {
		case h.Unregister <- sub:
		case <-h.done:
			return
		}
	}
}

// ClientCount reports how many connections are subscribed to topic
func (h *Hub) ClientCount(topic string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients[topic])
}

func (h *Hub) Stop() {
	close(h.done)
}
