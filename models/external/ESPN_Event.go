package external

type ESPN_Event struct {
	ID           string      `json:"id"`
	Date         string      `json:"date"`
	Name         string      `json:"name"`
	ShortName    string      `json:"shortName"`
	Competitions []ESPN_Comp `json:"competitions"`
	Status       ESPN_Status `json:"status"`
}

type ESPN_Comp struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"`
	Competitors []ESPN_Competitor `json:"competitors"`
	Status      ESPN_Status       `json:"status"`
}

type ESPN_Competitor struct {
	ID       string    `json:"id"`
	HomeAway string    `json:"homeAway"`
	Score    string    `json:"score"`
	Team     ESPN_Team `json:"team"`
}

type ESPN_Team struct {
	ID               string `json:"id"`
	Abbreviation     string `json:"abbreviation"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
}
