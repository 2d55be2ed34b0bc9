package external

type ESPN_Scoreboard struct {
	Day struct {
		Date string `json:"date"`
	} `json:"day"`
	Events []ESPN_Event `json:"events"`
}

type ESPN_StatusType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

type ESPN_Status struct {
	Clock        float64         `json:"clock"`
	DisplayClock string          `json:"displayClock"`
	Period       int             `json:"period"`
	Type         ESPN_StatusType `json:"type"`
}

// Final reports whether ESPN considers the game over.
func (s ESPN_Status) Final() bool {
	return s.Type.Completed || s.Type.Name == "STATUS_FINAL"
}
