package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
	chatservice "github.com/zhouzirui/billboard/backend/internal/service/chat"
)

type stubConversation struct {
	reply string
	err   error
}

func (s stubConversation) Converse(context.Context, string, []chat.Turn, string) (string, error) {
	return s.reply, s.err
}

func setupRouter(conv chatservice.Conversation) *chi.Mux {
	var engine Responder
	if conv != nil {
		engine = chatservice.NewService(conv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	r := chi.NewRouter()
	New(engine).RegisterRoutes(r)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatFoodMessage(t *testing.T) {
	r := setupRouter(stubConversation{reply: "Great choice!"})

	resp := post(r, `{"message":"I love pizza","messages":[{"role":"assistant","content":"Hi"}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body wire.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !body.IsFoodResponse || body.FoodItem == nil || *body.FoodItem != "Pizza" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Message != "Great choice!" || body.Timestamp == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestChatNonFoodHasNullItem(t *testing.T) {
	r := setupRouter(stubConversation{reply: "Hello!"})

	resp := post(r, `{"message":"hello there"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var raw map[string]json.RawMessage
	json.NewDecoder(resp.Body).Decode(&raw)
	if string(raw["foodItem"]) != "null" || string(raw["isFoodResponse"]) != "false" {
		t.Fatalf("unexpected body %v", raw)
	}
}

func TestChatMissingMessage(t *testing.T) {
	r := setupRouter(stubConversation{reply: "unused"})

	if resp := post(r, `{"messages":[]}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	r := setupRouter(stubConversation{err: errors.New("boom")})

	resp := post(r, `{"message":"hi"}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if bytes.Contains(resp.Body.Bytes(), []byte("boom")) {
		t.Fatal("upstream detail must not leak to the client")
	}
}

func TestChatWithoutProvider(t *testing.T) {
	r := setupRouter(nil)

	if resp := post(r, `{"message":"hi"}`); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
