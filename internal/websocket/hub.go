package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const broadcastBuffer = 64

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	stopOnce   sync.Once
	seq        int
	logger     *zap.Logger
	mu         sync.RWMutex
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, broadcastBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Named("hub"),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("client_id", client.ID.String()))
			client.SendMessage(MessageTypeConnected, ConnectedPayload{ClientID: client.ID.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", zap.String("client_id", client.ID.String()))

		case msg := <-h.broadcast:
			h.seq++
			msg.Seq = h.seq
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error("failed to marshal broadcast", zap.Error(err))
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				if !client.trySend(data) {
					// Slow consumer; it will re-fetch on reconnect.
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts the hub down and blocks until Run has returned.
// Safe to call more than once and from several goroutines.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NotifyCharactersChanged queues a roster change for every connected client.
// It never blocks the caller: when the queue is full the change is dropped
// and logged.
func (h *Hub) NotifyCharactersChanged(action ChangeAction, ids ...int) {
	if ids == nil {
		ids = []int{}
	}
	msg, err := NewMessage(MessageTypeCharactersChanged, CharactersChangedPayload{
		Action:       action,
		CharacterIDs: ids,
	})
	if err != nil {
		h.logger.Error("failed to build change message", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Warn("broadcast queue full, dropping change", zap.String("action", string(action)))
	}
}
