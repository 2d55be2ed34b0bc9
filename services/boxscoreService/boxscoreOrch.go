package boxscoreService

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/services/sportService"
)

// ErrNotFound means the source has no line for the player yet.
var ErrNotFound = errors.New("box score not available")

type Query struct {
	Sport      sportService.Sport
	Subject    string
	EventTime  time.Time
	GameNumber int
}

// Result is one player's stat line for one game. Stats are keyed by
// Sport.StatKey.
type Result struct {
	Stats   map[string]float64
	Final   bool
	EventID string
}

type Lookup interface {
	Lookup(ctx context.Context, q Query) (Result, error)
}

// Leagues publish schedules on US Eastern dates; a 10pm Pacific tip-off
// belongs to the previous Eastern day.
var eventZone = loadZone("America/New_York")

func loadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EventDate formats the league date of t as YYYY-MM-DD.
func EventDate(t time.Time) string {
	return t.In(eventZone).Format("2006-01-02")
}

type timeoutLookup struct {
	next    Lookup
	timeout time.Duration
}

// WithTimeout bounds every lookup. A lookup that runs out of time reports
// ErrNotFound so callers defer instead of failing.
func WithTimeout(next Lookup, timeout time.Duration) Lookup {
	return &timeoutLookup{next: next, timeout: timeout}
}

func (l *timeoutLookup) Lookup(ctx context.Context, q Query) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := l.next.Lookup(ctx, q)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{}, fmt.Errorf("%w: lookup timed out after %s", ErrNotFound, l.timeout)
	}
	return res, err
}

// parseStat reads a box-score cell. Cells like "7-15" (made-attempted) are
// split across the two keys joined by "-" in the column name.
func parseStat(key, cell string, out map[string]float64) {
	keys := strings.Split(key, "-")
	cells := strings.Split(cell, "-")
	if len(keys) == 2 && len(cells) == 2 {
		for i := range keys {
			if v, err := strconv.ParseFloat(strings.TrimSpace(cells[i]), 64); err == nil {
				out[keys[i]] = v
			}
		}
		return
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
		out[key] = v
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
