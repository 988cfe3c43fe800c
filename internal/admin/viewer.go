// Package admin renders the stored food preferences for operators.
package admin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"

	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/model/preference"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
	prefservice "github.com/zhouzirui/billboard/backend/internal/service/preference"
)

// DefaultInterval is how often the viewer refreshes.
const DefaultInterval = 30 * time.Second

// Source lists stored preferences.
type Source interface {
	ListFood(ctx context.Context) (wire.ListFoodResponse, error)
}

// Viewer polls a Source and writes a table on every refresh.
type Viewer struct {
	src      Source
	out      io.Writer
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// NewViewer builds a viewer; a non-positive interval selects DefaultInterval.
func NewViewer(src Source, out io.Writer, interval time.Duration, log *slog.Logger) *Viewer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Viewer{
		src:      src,
		out:      out,
		interval: interval,
		now:      time.Now,
		log:      log.With("component", "admin"),
	}
}

// Run refreshes immediately and then on every tick until ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	v.Refresh(ctx)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			v.Refresh(ctx)
		}
	}
}

// Refresh fetches once and renders the result or the failure.
func (v *Viewer) Refresh(ctx context.Context) {
	resp, err := v.src.ListFood(ctx)
	if err != nil {
		v.log.WarnContext(ctx, "fetch food preferences failed", logger.Err(err))
		fmt.Fprintf(v.out, "Error: failed to fetch food preferences (%v)\n\n", err)
		return
	}
	if err := Render(v.out, resp, v.now()); err != nil {
		v.log.ErrorContext(ctx, "render table failed", logger.Err(err))
	}
}

// Render writes the table, the total, the data source and the refresh time.
func Render(w io.Writer, resp wire.ListFoodResponse, updated time.Time) error {
	fmt.Fprintf(w, "Food Preferences  (total: %d, source: %s, last updated: %s)\n",
		resp.TotalCount, SourceLabel(resp), updated.Format("15:04:05"))

	if len(resp.FoodPreferences) == 0 {
		_, err := fmt.Fprintln(w, "No food preferences recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFOOD\tLOCATION\tTIMESTAMP")
	rows := lo.Map(resp.FoodPreferences, func(r preference.Record, _ int) string {
		return strings.Join([]string{r.Name, r.Food, r.Location, formatTimestamp(r.Timestamp)}, "\t")
	})
	for _, row := range rows {
		fmt.Fprintln(tw, row)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// SourceLabel names where a listing came from.
func SourceLabel(resp wire.ListFoodResponse) string {
	switch {
	case resp.FromDynamoDB:
		return "DynamoDB"
	case resp.FromMemory:
		return "Memory"
	case resp.Backend != "":
		return prefservice.DisplayName(resp.Backend)
	default:
		return "Unknown"
	}
}

func formatTimestamp(raw string) string {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
