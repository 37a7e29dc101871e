package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const (
	MessageNavigation = "navigation"
	MessageLiveEvent  = "live_event"
	MessageError      = "error"
)

// Message сообщение для клиента
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type directMessage struct {
	client  *Client
	message Message
}

// Command входящее сообщение от клиента (select, toggle_sidebar, close_sidebar, viewport)
type Command struct {
	Type    string `json:"type"`
	Section string `json:"section,omitempty"`
	Width   int    `json:"width,omitempty"`
}

// CommandHandler исполняет команды клиентов. Ответ рассылается через Broadcast*.
type CommandHandler func(ctx context.Context, cmd Command) error

// Hub управляет WebSocket клиентами и рассылает сообщения
// Реализует интерфейс port.NotificationService
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Message
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	handler       CommandHandler
	onClientCount func(int)

	logger *logger.Logger
}

var _ port.NotificationService = (*Hub)(nil)

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		direct:     make(chan directMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// SetCommandHandler подключает обработчик входящих команд. Вызывать до Run.
func (h *Hub) SetCommandHandler(handler CommandHandler) {
	h.handler = handler
}

// OnClientCount вызывается при каждом изменении числа клиентов. Вызывать до Run.
func (h *Hub) OnClientCount(fn func(int)) {
	h.onClientCount = fn
}

// Run обслуживает регистрацию и рассылку до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.reportCount(total)
			h.logger.Debug("Client registered", "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			total := len(h.clients)
			h.mu.Unlock()
			h.reportCount(total)
			h.logger.Debug("Client unregistered", "total_clients", total)

		case message := <-h.broadcast:
			h.deliver(message)

		case dm := <-h.direct:
			h.mu.Lock()
			if _, ok := h.clients[dm.client]; ok {
				select {
				case dm.client.send <- dm.message:
				default:
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) deliver(message Message) {
	h.mu.Lock()
	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// медленный клиент отключается
			h.dropLocked(client)
			dropped++
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	if dropped > 0 {
		h.reportCount(total)
		h.logger.Warn("Client channel full, disconnected", "dropped", dropped, "type", message.Type)
	}
}

func (h *Hub) dropLocked(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for client := range h.clients {
		h.dropLocked(client)
	}
	h.mu.Unlock()
	h.reportCount(0)
}

func (h *Hub) reportCount(n int) {
	if h.onClientCount != nil {
		h.onClientCount(n)
	}
}

// Register регистрирует нового клиента. После остановки hub клиент сразу закрывается.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastNavigation рассылает новое состояние навигации
func (h *Hub) BroadcastNavigation(update *dto.NavigationUpdateDTO) {
	if update == nil {
		return
	}
	h.enqueue(Message{Type: MessageNavigation, Data: update})
}

// BroadcastLiveEvent рассылает событие ленты guardrail
func (h *Hub) BroadcastLiveEvent(event *dto.LiveEventDTO) {
	if event == nil {
		return
	}
	h.enqueue(Message{Type: MessageLiveEvent, Data: event})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("Broadcast channel full, dropping message", "type", message.Type)
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleCommand разбирает и исполняет входящее сообщение клиента
func (h *Hub) handleCommand(ctx context.Context, client *Client, raw []byte) {
	if h.handler == nil {
		return
	}

	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil || cmd.Type == "" {
		h.reply(client, "malformed command")
		return
	}

	if err := h.handler(ctx, cmd); err != nil {
		h.logger.Debug("WebSocket command rejected", "type", cmd.Type, "error", err.Error())
		h.reply(client, err.Error())
	}
}

// reply отправляет ошибку только автору команды
func (h *Hub) reply(client *Client, text string) {
	select {
	case h.direct <- directMessage{client: client, message: Message{Type: MessageError, Data: map[string]string{"error": text}}}:
	default:
	}
}
