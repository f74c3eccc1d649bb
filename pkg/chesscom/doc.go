// Package chesscom is a small client for the public chess.com API.
//
// Endpoints used:
//   - GET /pub/player/{username}: profile lookup, used to check that a player exists and is public
//   - GET /pub/player/{username}/games/archives: monthly archive URLs
//   - GET {archive_url}: the games of one month
//
// Every request carries the configured User-Agent, runs with the http.Client
// timeout from config.APIConfig and is retried by pkg/retry when it fails with
// a network error, HTTP 429 or a 5xx status.
//
// Errors returned by the client are *errors.Error values from pkg/errors:
//
//	_, err := client.FetchProfile(ctx, "hikaru")
//	switch errors.TypeOf(err) {
//	case errors.ErrorTypeNotFound:
//	    // unknown player
//	case errors.ErrorTypePrivate:
//	    // profile is not public
//	}
package chesscom
