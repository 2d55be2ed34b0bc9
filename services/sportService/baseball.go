package sportService

// Baseball box scores split batting and pitching lines; keys carry the
// group as a prefix.
var baseballMetrics = map[string]metricDef{
	"hits":         {keys: []string{"batting.hits"}, monotonic: true},
	"runs":         {keys: []string{"batting.runs"}, monotonic: true},
	"rbis":         {keys: []string{"batting.RBIs"}, monotonic: true},
	"home_runs":    {keys: []string{"batting.homeRuns"}, monotonic: true},
	"walks":        {keys: []string{"batting.walks"}, monotonic: true},
	"strikeouts":   {keys: []string{"pitching.strikeouts"}, monotonic: true},
	"earned_runs":  {keys: []string{"pitching.earnedRuns"}, monotonic: true},
	"hits_allowed": {keys: []string{"pitching.hits"}, monotonic: true},
}

var baseballOrder = []string{"hits", "runs", "rbis", "home_runs", "walks", "strikeouts", "earned_runs", "hits_allowed"}

type Baseball struct{}

func (Baseball) Name() string      { return "baseball" }
func (Baseball) League() string    { return "baseball/mlb" }
func (Baseball) Metrics() []string { return metricNames(baseballMetrics, baseballOrder) }

func (Baseball) Resolve(metric string, stats map[string]float64) (float64, error) {
	return resolve(baseballMetrics, metric, stats)
}

func (Baseball) Monotonic(metric string) bool {
	return baseballMetrics[metric].monotonic
}

func (Baseball) LookupKey(subject string) string { return NormalizeName(subject) }

// GameNumber returns the doubleheader game the wager names, defaulting to
// the first game.
func (Baseball) GameNumber(segment *int) int {
	if segment == nil || *segment < 1 {
		return 1
	}
	return *segment
}

func (Baseball) StatKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}
