// Package archive downloads a player's game history into per-month PGN files.
//
// Each monthly archive becomes <dir>/<YYYY>-<MM>.pgn. Games are appended with
// a blank line after each record, so repeated runs add to existing files.
// Requests are spaced by a ratelimit.Limiter.
package archive
