package external

// ESPN_Summary is the subset of the ESPN event summary payload that carries
// per-player box-score lines.
type ESPN_Summary struct {
	Boxscore struct {
		Players []ESPN_TeamPlayers `json:"players"`
	} `json:"boxscore"`
	Header struct {
		ID           string `json:"id"`
		Competitions []struct {
			ID     string      `json:"id"`
			Date   string      `json:"date"`
			Status ESPN_Status `json:"status"`
		} `json:"competitions"`
	} `json:"header"`
}

type ESPN_TeamPlayers struct {
	Team       ESPN_Team             `json:"team"`
	Statistics []ESPN_StatisticGroup `json:"statistics"`
}

// ESPN_StatisticGroup is one table of the box score. Type is empty for
// basketball and "batting"/"pitching" for baseball.
type ESPN_StatisticGroup struct {
	Type     string          `json:"type"`
	Names    []string        `json:"names"`
	Keys     []string        `json:"keys"`
	Labels   []string        `json:"labels"`
	Athletes []ESPN_Athletes `json:"athletes"`
}

type ESPN_Athletes struct {
	Active     bool `json:"active"`
	DidNotPlay bool `json:"didNotPlay"`
	Athlete    struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		ShortName   string `json:"shortName"`
	} `json:"athlete"`
	Stats []string `json:"stats"`
}

// Final reports whether the summary's competition has finished.
func (s ESPN_Summary) Final() bool {
	for _, comp := range s.Header.Competitions {
		if comp.Status.Final() {
			return true
		}
	}
	return false
}
