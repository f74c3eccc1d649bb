package chesscom

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the public chess.com API root
	BaseURL = "https://api.chess.com"

	// PlayerEndpoint is the path prefix for player resources
	PlayerEndpoint = "/pub/player/"
)

// GetProfileURL constructs the URL of a player's profile
func GetProfileURL(base, username string) string {
	return fmt.Sprintf("%s%s%s", strings.TrimRight(base, "/"), PlayerEndpoint, url.PathEscape(strings.ToLower(username)))
}

// GetArchivesURL constructs the URL listing a player's monthly archives
func GetArchivesURL(base, username string) string {
	return GetProfileURL(base, username) + "/games/archives"
}
