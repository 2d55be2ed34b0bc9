package sportService

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
)

// ErrStatMissing means the box score exists but does not carry a stat the
// metric needs yet. It is treated like data not being available.
var ErrStatMissing = errors.New("stat missing from box score")

// Sport maps wager metrics onto one league's box-score format.
type Sport interface {
	Name() string
	// League is the ESPN path segment, e.g. "basketball/nba".
	League() string
	Metrics() []string
	Resolve(metric string, stats map[string]float64) (float64, error)
	// Monotonic reports whether the metric can only grow during a game.
	Monotonic(metric string) bool
	LookupKey(subject string) string
	// GameNumber picks which game on a date the wager refers to.
	GameNumber(segment *int) int
	// StatKey names a box-score column from its table and column key.
	StatKey(group, key string) string
}

var registry = map[string]Sport{}

func register(s Sport, aliases ...string) {
	registry[s.Name()] = s
	for _, a := range aliases {
		registry[a] = s
	}
}

func init() {
	register(Basketball{}, "nba")
	register(Baseball{}, "mlb")
}

func Get(name string) (Sport, error) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownSport, name)
	}
	return s, nil
}

// metricDef sums one or more box-score keys.
type metricDef struct {
	keys      []string
	monotonic bool
}

func resolve(defs map[string]metricDef, metric string, stats map[string]float64) (float64, error) {
	def, ok := defs[metric]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownMetric, metric)
	}
	var total float64
	for _, key := range def.keys {
		v, ok := stats[key]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrStatMissing, key)
		}
		total += v
	}
	return total, nil
}

func metricNames(defs map[string]metricDef, order []string) []string {
	out := make([]string, 0, len(order))
	for _, m := range order {
		if _, ok := defs[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// NormalizeName lowercases a player name and strips punctuation so
// "P.J. Washington" and "pj washington" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer(".", "", "'", "", "’", "").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}
