package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Greet the visitor and chat",
	RunE:  runChat,
}

func init() {
	flags := chatCmd.Flags()
	flags.StringP("location", "l", "", "predefined location key (nyc, sf, baltimore)")
	flags.Float64("latitude", 0, "fixed latitude used when no location key is set")
	flags.Float64("longitude", 0, "fixed longitude used when no location key is set")

	_ = viper.BindPFlag("location", flags.Lookup("location"))
	_ = viper.BindPFlag("latitude", flags.Lookup("latitude"))
	_ = viper.BindPFlag("longitude", flags.Lookup("longitude"))
}

// fixedLocator reports a configured position, standing in for a GPS fix.
type fixedLocator struct {
	coords location.Coordinates
}

func (l fixedLocator) Locate(context.Context) (location.Coordinates, error) {
	return l.coords, nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := newTranscript(cmd.OutOrStdout())
	opts := []session.Option{
		session.WithLogger(newLogger()),
		session.WithObserver(out.Render),
	}
	if viper.IsSet("latitude") && viper.IsSet("longitude") {
		opts = append(opts, session.WithLocator(fixedLocator{coords: location.Coordinates{
			Latitude:  viper.GetFloat64("latitude"),
			Longitude: viper.GetFloat64("longitude"),
		}}))
	}

	ctrl := session.NewController(newClient(), opts...)
	go ctrl.Run(ctx)
	ctrl.Mount(viper.GetString("location"))

	lines := make(chan string)
	go scanLines(cmd.InOrStdin(), lines)

	settle := viper.GetDuration("timeout")
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		case line, ok := <-lines:
			// Piped input outruns replies: finish the previous turn first,
			// and flush pending work before exiting on EOF.
			if err := waitIdle(ctx, ctrl, settle); err != nil {
				return err
			}
			if !ok || ctx.Err() != nil {
				return nil
			}
			ctrl.Submit(line)
		}
	}
}

// idler is the part of the controller runChat waits on.
type idler interface {
	WaitIdle(ctx context.Context) error
}

// waitIdle waits up to limit for in-flight calls. A timeout or interrupt is
// not an error.
func waitIdle(ctx context.Context, ctrl idler, limit time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	if err := ctrl.WaitIdle(waitCtx); err != nil && waitCtx.Err() == nil {
		return err
	}
	return nil
}

func scanLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}

// transcript prints each message once, as snapshots arrive.
type transcript struct {
	mu       sync.Mutex
	w        io.Writer
	printed  int
	errShown string
	busy     bool
}

func newTranscript(w io.Writer) *transcript {
	return &transcript{w: w}
}

func (t *transcript) Render(s session.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range s.Messages[min(t.printed, len(s.Messages)):] {
		fmt.Fprintln(t.w, formatMessage(m))
	}
	t.printed = len(s.Messages)

	if s.State == session.LocationError && s.Error != "" && s.Error != t.errShown {
		fmt.Fprintf(t.w, "! %s\n", s.Error)
		t.errShown = s.Error
	}
	if s.Busy && !t.busy {
		fmt.Fprintln(t.w, "  ...")
	}
	t.busy = s.Busy
}

func formatMessage(m chat.Message) string {
	prefix := "billboard>"
	if m.Role == chat.RoleUser {
		prefix = "you>"
	}
	return prefix + " " + strings.TrimSpace(m.Content)
}
