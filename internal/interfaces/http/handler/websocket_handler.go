package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	wsInfra "github.com/dreschagin/rai-dashboard/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// WebSocketHandler обрабатывает WebSocket connections
type WebSocketHandler struct {
	hub            *wsInfra.Hub
	logger         *logger.Logger
	allowedOrigins map[string]struct{}
	authConfig     middleware.AuthConfig
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler создает новый handler
func NewWebSocketHandler(
	hub *wsInfra.Hub,
	allowedOrigins []string,
	authConfig middleware.AuthConfig,
	logger *logger.Logger,
) *WebSocketHandler {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			originMap[trimmed] = struct{}{}
		}
	}

	handler := &WebSocketHandler{
		hub:            hub,
		logger:         logger,
		allowedOrigins: originMap,
		authConfig:     authConfig,
	}
	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     handler.checkOrigin,
	}
	return handler
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		// не браузерный клиент (raictl, тесты)
		return true
	}
	if _, ok := h.allowedOrigins["*"]; ok {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Host == r.Host {
		return true
	}
	_, ok := h.allowedOrigins[parsed.Scheme+"://"+parsed.Host]
	return ok
}

// HandleConnection обрабатывает новое WebSocket соединение
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.authConfig.Check(r); err != nil {
		h.logger.Warn("WebSocket unauthorized",
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", err)
		return
	}

	wsInfra.NewClient(h.hub, conn, h.logger).Serve()
}

// NavigationCommands переводит команды клиентов WebSocket в вызовы навигации
func NavigationCommands(navigate *usecase.NavigateUseCase) wsInfra.CommandHandler {
	return func(ctx context.Context, cmd wsInfra.Command) error {
		switch cmd.Type {
		case "select":
			section, err := valueobject.ParseSection(cmd.Section)
			if err != nil {
				return err
			}
			_, err = navigate.Select(ctx, section, entity.SourceSidebar)
			return err
		case "toggle_sidebar":
			navigate.ToggleSidebar(ctx)
			return nil
		case "close_sidebar":
			navigate.CloseSidebar(ctx)
			return nil
		case "viewport":
			_, err := navigate.SetViewportWidth(ctx, cmd.Width)
			return err
		default:
			return errors.New("unknown command: " + cmd.Type)
		}
	}
}
