package models

// Profile is the public player record at /pub/player/{username}
type Profile struct {
	PlayerID   int64  `json:"player_id"`
	Username   string `json:"username"`
	URL        string `json:"url"`
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	Status     string `json:"status"`
	Country    string `json:"country,omitempty"`
	Joined     int64  `json:"joined"`
	LastOnline int64  `json:"last_online"`
}

// ArchivesResponse lists one URL per month with recorded games
type ArchivesResponse struct {
	Archives []string `json:"archives"`
}

// MonthResponse is the body of a monthly archive
type MonthResponse struct {
	Games []Game `json:"games"`
}

// Game is a single archived game. PGN is empty when the API omits it.
type Game struct {
	URL         string `json:"url"`
	PGN         string `json:"pgn,omitempty"`
	TimeControl string `json:"time_control"`
	TimeClass   string `json:"time_class"`
	Rules       string `json:"rules"`
	Rated       bool   `json:"rated"`
	EndTime     int64  `json:"end_time"`
	White       Player `json:"white"`
	Black       Player `json:"black"`
}

// Player is one side of a Game
type Player struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

// HasPGN reports whether the game carries a PGN record
func (g Game) HasPGN() bool {
	return g.PGN != ""
}
