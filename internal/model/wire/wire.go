// Package wire holds the JSON bodies exchanged over /api, shared by the
// handlers and the kiosk client.
package wire

import (
	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/preference"
)

type ChatRequest struct {
	Message  string      `json:"message"`
	Messages []chat.Turn `json:"messages"`
}

type ChatResponse struct {
	Message        string  `json:"message"`
	IsFoodResponse bool    `json:"isFoodResponse"`
	FoodItem       *string `json:"foodItem"`
	Timestamp      string  `json:"timestamp"`
}

// GreetingRequest carries coordinates; either may be absent.
type GreetingRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type GreetingResponse struct {
	Message  string `json:"message"`
	Location string `json:"location"`
}

type StoreFoodRequest struct {
	FoodItem  string `json:"foodItem"`
	Location  string `json:"location"`
	Timestamp string `json:"timestamp"`
}

// StoreFoodResponse names the backend that accepted the record. TotalRecords
// is only reported for memory writes.
type StoreFoodResponse struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message"`
	Backend          string            `json:"backend"`
	StoredInDynamoDB bool              `json:"storedInDynamoDB,omitempty"`
	StoredInMemory   bool              `json:"storedInMemory,omitempty"`
	Record           preference.Record `json:"record"`
	TotalRecords     int               `json:"totalRecords,omitempty"`
}

type ListFoodResponse struct {
	Success         bool                `json:"success"`
	FoodPreferences []preference.Record `json:"foodPreferences"`
	TotalCount      int                 `json:"totalCount"`
	Backend         string              `json:"backend"`
	FromDynamoDB    bool                `json:"fromDynamoDB,omitempty"`
	FromMemory      bool                `json:"fromMemory,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
