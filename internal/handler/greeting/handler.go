package greeting

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
	greetingservice "github.com/zhouzirui/billboard/backend/internal/service/greeting"
	"github.com/zhouzirui/billboard/backend/pkg/utils"
)

// Composer 生成开场问候
type Composer interface {
	Compose(ctx context.Context, h greetingservice.Hint) (greetingservice.Greeting, error)
}

// Handler 问候语的HTTP处理器
type Handler struct {
	composer Composer
}

// New 创建问候处理器；composer 为 nil 表示依赖未配置
func New(composer Composer) *Handler {
	return &Handler{composer: composer}
}

// RegisterRoutes 注册问候相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-message", h.handleGenerate)
}

// handleGenerate ?location= 能解析时忽略请求体，否则使用请求体中的经纬度
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("location")

	var payload wire.GreetingRequest
	if _, known := location.LookupPlace(key); !known {
		if err := utils.DecodeJSON(r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	resp, status, msg := Generate(r.Context(), h.composer, key, payload)
	if status != http.StatusOK {
		utils.RespondError(w, status, msg)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// Generate 生成问候并映射为响应体与状态码，REST 与 WebSocket 共用
func Generate(ctx context.Context, composer Composer, key string, req wire.GreetingRequest) (wire.GreetingResponse, int, string) {
	if composer == nil {
		return wire.GreetingResponse{}, http.StatusInternalServerError, "AI provider not configured"
	}

	g, err := composer.Compose(ctx, greetingservice.Hint{
		Key:       key,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	switch {
	case errors.Is(err, greetingservice.ErrInvalidLocation):
		return wire.GreetingResponse{}, http.StatusBadRequest, "Missing latitude or longitude"
	case err != nil:
		return wire.GreetingResponse{}, http.StatusInternalServerError, "Failed to generate message"
	}
	return wire.GreetingResponse{Message: g.Message, Location: g.Location}, http.StatusOK, ""
}
