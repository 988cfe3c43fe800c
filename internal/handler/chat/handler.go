package chat

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
	chatservice "github.com/zhouzirui/billboard/backend/internal/service/chat"
	"github.com/zhouzirui/billboard/backend/pkg/utils"
)

// Responder 生成一轮对话回复
type Responder interface {
	Respond(ctx context.Context, text string, history []chat.Turn) (chatservice.Reply, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	engine Responder
}

// New 创建聊天处理器；engine 为 nil 表示未配置大模型
func New(engine Responder) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// handleChat 处理一轮访客消息
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload wire.ChatRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, status, msg := Reply(r.Context(), h.engine, payload)
	if status != http.StatusOK {
		utils.RespondError(w, status, msg)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// Reply 执行一轮对话并映射为响应体与状态码，REST 与 WebSocket 共用
func Reply(ctx context.Context, engine Responder, req wire.ChatRequest) (wire.ChatResponse, int, string) {
	if engine == nil {
		return wire.ChatResponse{}, http.StatusInternalServerError, "AI provider not configured"
	}

	reply, err := engine.Respond(ctx, req.Message, req.Messages)
	switch {
	case errors.Is(err, chatservice.ErrEmptyMessage):
		return wire.ChatResponse{}, http.StatusBadRequest, "Message is required"
	case err != nil:
		return wire.ChatResponse{}, http.StatusInternalServerError, "Failed to generate response"
	}
	return ToResponse(reply), http.StatusOK, ""
}

// ToResponse 将回复转换为线上格式，未识别到食物时 foodItem 为 null
func ToResponse(reply chatservice.Reply) wire.ChatResponse {
	ts := reply.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	resp := wire.ChatResponse{
		Message:        reply.Message,
		IsFoodResponse: reply.IsFood,
		Timestamp:      ts.UTC().Format(timestampLayout),
	}
	if reply.IsFood && reply.FoodItem != "" {
		item := reply.FoodItem
		resp.FoodItem = &item
	}
	return resp
}

// 与浏览器 toISOString 一致的毫秒精度
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"
