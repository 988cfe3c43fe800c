// Package preference persists the favorite foods visitors mention, preferring
// a configured backend and falling back to process memory.
package preference

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/billboard/backend/internal/config"
	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/metrics"
	"github.com/zhouzirui/billboard/backend/internal/model/preference"
)

// ErrFoodItemRequired rejects a store request without a food item.
var ErrFoodItemRequired = errors.New("food item is required")

// UnknownLocation is recorded when the visitor's location was not supplied.
const UnknownLocation = "Unknown"

// Backend is a durable record store.
type Backend interface {
	// Name identifies the backend in responses and metrics.
	Name() string
	Put(ctx context.Context, rec preference.Record) error
	Scan(ctx context.Context) ([]preference.Record, error)
	Close() error
}

// StoreRequest is what the kiosk submits after a food mention.
type StoreRequest struct {
	FoodItem  string
	Location  string
	Timestamp string
}

// Result describes a stored record and the backend that accepted it.
// TotalRecords is only set when memory served the write.
type Result struct {
	Record       preference.Record
	Backend      string
	Message      string
	TotalRecords int
}

// Listing is every record from the backend that served the read.
type Listing struct {
	Records []preference.Record
	Backend string
}

// Service appends and lists records.
type Service struct {
	primary  Backend
	fallback *MemoryStore
	now      func() time.Time
	log      *slog.Logger
}

// NewService wires the store. primary may be nil, in which case every call
// is served by fallback.
func NewService(primary Backend, fallback *MemoryStore, log *slog.Logger) *Service {
	if fallback == nil {
		fallback = NewMemoryStore()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		primary:  primary,
		fallback: fallback,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With("component", "preference"),
	}
}

// Backend names the store writes go to first.
func (s *Service) Backend() string {
	if s.primary != nil {
		return s.primary.Name()
	}
	return MemoryBackend
}

// Append stores one record. A failing primary is logged and the record is
// kept in memory instead; the write is never lost.
func (s *Service) Append(ctx context.Context, req StoreRequest) (Result, error) {
	if strings.TrimSpace(req.FoodItem) == "" {
		return Result{}, ErrFoodItemRequired
	}

	rec := s.newRecord(req)

	if s.primary != nil {
		err := s.primary.Put(ctx, rec)
		metrics.UpstreamRequests.WithLabelValues(s.primary.Name(), metrics.Outcome(err)).Inc()
		if err == nil {
			metrics.PreferencesStored.WithLabelValues(s.primary.Name()).Inc()
			s.log.InfoContext(ctx, "food preference stored", "backend", s.primary.Name(), "food", rec.Food)
			return Result{
				Record:  rec,
				Backend: s.primary.Name(),
				Message: "Food preference stored in " + DisplayName(s.primary.Name()),
			}, nil
		}
		metrics.StoreFallbacks.WithLabelValues("put").Inc()
		s.log.WarnContext(ctx, "primary store put failed, using memory", "backend", s.primary.Name(), logger.Err(err))
	}

	total := s.fallback.Append(rec)
	metrics.PreferencesStored.WithLabelValues(MemoryBackend).Inc()
	s.log.InfoContext(ctx, "food preference stored", "backend", MemoryBackend, "food", rec.Food, "total", total)

	return Result{
		Record:       rec,
		Backend:      MemoryBackend,
		Message:      "Food preference stored in memory",
		TotalRecords: total,
	}, nil
}

// ListAll returns every record of the serving backend, in its natural order.
func (s *Service) ListAll(ctx context.Context) (Listing, error) {
	if s.primary != nil {
		records, err := s.primary.Scan(ctx)
		metrics.UpstreamRequests.WithLabelValues(s.primary.Name(), metrics.Outcome(err)).Inc()
		if err == nil {
			if records == nil {
				records = []preference.Record{}
			}
			return Listing{Records: records, Backend: s.primary.Name()}, nil
		}
		metrics.StoreFallbacks.WithLabelValues("scan").Inc()
		s.log.WarnContext(ctx, "primary store scan failed, using memory", "backend", s.primary.Name(), logger.Err(err))
	}

	return Listing{Records: s.fallback.List(), Backend: MemoryBackend}, nil
}

// Close releases the primary backend.
func (s *Service) Close() error {
	if s.primary == nil {
		return nil
	}
	return s.primary.Close()
}

func (s *Service) newRecord(req StoreRequest) preference.Record {
	loc := strings.TrimSpace(req.Location)
	if loc == "" {
		loc = UnknownLocation
	}
	ts := strings.TrimSpace(req.Timestamp)
	if ts == "" {
		ts = s.now().Format(time.RFC3339Nano)
	}
	return preference.Record{
		ID:        newRecordID(),
		Name:      "User from " + loc,
		Food:      strings.TrimSpace(req.FoodItem),
		Location:  loc,
		Timestamp: ts,
	}
}

func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// DisplayName renders a backend name for people.
func DisplayName(backend string) string {
	switch backend {
	case config.BackendDynamoDB:
		return "DynamoDB"
	case config.BackendRedis:
		return "Redis"
	case config.BackendSQLite:
		return "SQLite"
	case config.BackendPostgres:
		return "PostgreSQL"
	case MemoryBackend:
		return "Memory"
	default:
		return backend
	}
}
