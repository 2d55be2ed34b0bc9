package sportService

var basketballMetrics = map[string]metricDef{
	"points":    {keys: []string{"points"}, monotonic: true},
	"rebounds":  {keys: []string{"rebounds"}, monotonic: true},
	"assists":   {keys: []string{"assists"}, monotonic: true},
	"steals":    {keys: []string{"steals"}, monotonic: true},
	"blocks":    {keys: []string{"blocks"}, monotonic: true},
	"turnovers": {keys: []string{"turnovers"}, monotonic: true},
	"threes":    {keys: []string{"threePointFieldGoalsMade"}, monotonic: true},
	"pra":       {keys: []string{"points", "rebounds", "assists"}, monotonic: true},
	"pr":        {keys: []string{"points", "rebounds"}, monotonic: true},
	"pa":        {keys: []string{"points", "assists"}, monotonic: true},
	"ra":        {keys: []string{"rebounds", "assists"}, monotonic: true},
}

var basketballOrder = []string{"points", "rebounds", "assists", "steals", "blocks", "turnovers", "threes", "pra", "pr", "pa", "ra"}

type Basketball struct{}

func (Basketball) Name() string      { return "basketball" }
func (Basketball) League() string    { return "basketball/nba" }
func (Basketball) Metrics() []string { return metricNames(basketballMetrics, basketballOrder) }

func (Basketball) Resolve(metric string, stats map[string]float64) (float64, error) {
	return resolve(basketballMetrics, metric, stats)
}

func (Basketball) Monotonic(metric string) bool {
	return basketballMetrics[metric].monotonic
}

func (Basketball) LookupKey(subject string) string { return NormalizeName(subject) }

// NBA teams never play twice on one date.
func (Basketball) GameNumber(*int) int { return 1 }

func (Basketball) StatKey(_, key string) string { return key }
