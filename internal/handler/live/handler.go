package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chathandler "github.com/zhouzirui/billboard/backend/internal/handler/chat"
	greetinghandler "github.com/zhouzirui/billboard/backend/internal/handler/greeting"
	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler 为展板终端提供 WebSocket 通道，帧的应答与 REST 接口一致
type Handler struct {
	engine   chathandler.Responder
	composer greetinghandler.Composer
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// New 创建 WebSocket 处理器
func New(engine chathandler.Responder, composer greetinghandler.Composer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		engine:   engine,
		composer: composer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log.With("component", "live"),
	}
}

// RegisterRoutes 注册 WebSocket 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// Frame 是终端发来的一帧，type 为 greeting 或 chat
type Frame struct {
	Type      string      `json:"type"`
	ID        string      `json:"id,omitempty"`
	Location  string      `json:"location,omitempty"`
	Latitude  *float64    `json:"latitude,omitempty"`
	Longitude *float64    `json:"longitude,omitempty"`
	Message   string      `json:"message,omitempty"`
	Messages  []chat.Turn `json:"messages,omitempty"`
}

// Reply 是服务端应答帧，status 与对应 REST 接口的状态码一致
type Reply struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	Status    int    `json:"status"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connection) send(reply Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	reply.Timestamp = time.Now().Unix()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(reply)
}

// handleWebSocket 逐帧处理请求，同一连接上的帧按顺序应答
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", logger.Err(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go pingLoop(ctx, conn)

	c := &connection{conn: conn}
	h.log.InfoContext(ctx, "kiosk connected", "remote", r.RemoteAddr)

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WarnContext(ctx, "websocket read failed", logger.Err(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := c.send(h.dispatch(ctx, frame)); err != nil {
			h.log.WarnContext(ctx, "websocket write failed", logger.Err(err))
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, frame Frame) Reply {
	reply := Reply{Type: frame.Type, ID: frame.ID}

	switch frame.Type {
	case "greeting":
		resp, status, msg := greetinghandler.Generate(ctx, h.composer, frame.Location, wire.GreetingRequest{
			Latitude:  frame.Latitude,
			Longitude: frame.Longitude,
		})
		reply.Status = status
		if status == http.StatusOK {
			reply.Data = resp
		} else {
			reply.Error = msg
		}
	case "chat":
		resp, status, msg := chathandler.Reply(ctx, h.engine, wire.ChatRequest{
			Message:  frame.Message,
			Messages: frame.Messages,
		})
		reply.Status = status
		if status == http.StatusOK {
			reply.Data = resp
		} else {
			reply.Error = msg
		}
	default:
		reply.Type = "error"
		reply.Status = http.StatusBadRequest
		reply.Error = "unsupported frame type"
	}
	return reply
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
