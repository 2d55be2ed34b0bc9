package boxscoreService

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models/external"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/sportService"
	"golang.org/x/time/rate"
)

const (
	DefaultESPNBase = "https://site.api.espn.com/apis/site/v2/sports"
	espnRatePerSec  = 5
)

// ESPNClient reads box scores straight from ESPN's public site API: the
// scoreboard for a date lists events, and each event summary carries the
// player tables.
type ESPNClient struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
}

func NewESPNClient(base string) *ESPNClient {
	if base == "" {
		base = DefaultESPNBase
	}
	return &ESPNClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		base:    base,
		limiter: rate.NewLimiter(espnRatePerSec, 2),
	}
}

func (c *ESPNClient) Lookup(ctx context.Context, q Query) (Result, error) {
	date := q.EventTime.In(eventZone).Format("20060102")

	var scoreboard external.ESPN_Scoreboard
	scoreboardURL := fmt.Sprintf("%s/%s/scoreboard?dates=%s", c.base, q.Sport.League(), date)
	if err := c.get(ctx, scoreboardURL, &scoreboard); err != nil {
		return Result{}, err
	}

	events := scoreboard.Events
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })

	key := q.Sport.LookupKey(q.Subject)
	seen := 0
	for _, event := range events {
		var summary external.ESPN_Summary
		summaryURL := fmt.Sprintf("%s/%s/summary?event=%s", c.base, q.Sport.League(), url.QueryEscape(event.ID))
		if err := c.get(ctx, summaryURL, &summary); err != nil {
			return Result{}, err
		}

		stats, ok := playerLine(q.Sport, summary, key)
		if !ok {
			continue
		}
		seen++
		if seen < q.GameNumber {
			continue
		}
		return Result{
			Stats:   stats,
			Final:   summary.Final() || event.Status.Final(),
			EventID: event.ID,
		}, nil
	}
	return Result{}, ErrNotFound
}

// playerLine merges every table row for the player into one stat map.
func playerLine(sport sportService.Sport, summary external.ESPN_Summary, key string) (map[string]float64, bool) {
	stats := map[string]float64{}
	found := false
	for _, team := range summary.Boxscore.Players {
		for _, group := range team.Statistics {
			for _, athlete := range group.Athletes {
				if athlete.DidNotPlay || sportService.NormalizeName(athlete.Athlete.DisplayName) != key {
					continue
				}
				found = true
				raw := map[string]float64{}
				for i, col := range group.Keys {
					if i < len(athlete.Stats) {
						parseStat(col, athlete.Stats[i], raw)
					}
				}
				for k, v := range raw {
					stats[sport.StatKey(group.Type, k)] = v
				}
			}
		}
	}
	return stats, found
}

func (c *ESPNClient) get(ctx context.Context, requestURL string, out any) error {
	var (
		body []byte
		err  error
	)
	if cache := cacheFrom(ctx); cache != nil {
		body, err = cache.fetch(requestURL, func() ([]byte, error) { return c.fetch(ctx, requestURL) })
	} else {
		body, err = c.fetch(ctx, requestURL)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode espn response: %w", err)
	}
	return nil
}

func (c *ESPNClient) fetch(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("espn %s: status %d", req.URL.Path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
