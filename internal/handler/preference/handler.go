package preference

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/billboard/backend/internal/config"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
	prefservice "github.com/zhouzirui/billboard/backend/internal/service/preference"
	"github.com/zhouzirui/billboard/backend/pkg/utils"
)

// Store 食物偏好存储
type Store interface {
	Append(ctx context.Context, req prefservice.StoreRequest) (prefservice.Result, error)
	ListAll(ctx context.Context) (prefservice.Listing, error)
}

// Handler 食物偏好的HTTP处理器
type Handler struct {
	store Store
}

// New 创建食物偏好处理器
func New(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册食物偏好相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/store-food", h.handleStore)
	r.Get("/store-food", h.handleList)
}

// handleStore 追加一条食物偏好
func (h *Handler) handleStore(w http.ResponseWriter, r *http.Request) {
	var payload wire.StoreFoodRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.store.Append(r.Context(), prefservice.StoreRequest{
		FoodItem:  payload.FoodItem,
		Location:  payload.Location,
		Timestamp: payload.Timestamp,
	})
	if errors.Is(err, prefservice.ErrFoodItemRequired) {
		utils.RespondError(w, http.StatusBadRequest, "Food item is required")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to store food preference")
		return
	}

	utils.RespondJSON(w, http.StatusOK, StoreResponse(res))
}

// handleList 列出全部食物偏好
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	listing, err := h.store.ListAll(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, ListResponse(listing))
}

// StoreResponse 标注写入来源，仅内存写入返回 totalRecords
func StoreResponse(res prefservice.Result) wire.StoreFoodResponse {
	resp := wire.StoreFoodResponse{
		Success: true,
		Message: res.Message,
		Backend: res.Backend,
		Record:  res.Record,
	}
	switch res.Backend {
	case config.BackendDynamoDB:
		resp.StoredInDynamoDB = true
	case prefservice.MemoryBackend:
		resp.StoredInMemory = true
		resp.TotalRecords = res.TotalRecords
	}
	return resp
}

// ListResponse 标注读取来源
func ListResponse(listing prefservice.Listing) wire.ListFoodResponse {
	resp := wire.ListFoodResponse{
		Success:         true,
		FoodPreferences: listing.Records,
		TotalCount:      len(listing.Records),
		Backend:         listing.Backend,
	}
	switch listing.Backend {
	case config.BackendDynamoDB:
		resp.FromDynamoDB = true
	case prefservice.MemoryBackend:
		resp.FromMemory = true
	}
	return resp
}
