// Package storage owns the output directories of both pipelines.
//
// The storage package handles:
//   - Preparing an output directory under an explicit Policy
//   - Replacing diagram files atomically (temporary file + rename)
//   - Appending games to per-month PGN archives
//
// Policies:
//   - overwrite: remove the directory and recreate it (diagram default)
//   - fail-if-exists: refuse a non-empty directory with ErrOutputExists
//   - merge: create the directory when missing, keep what is there (downloads)
//
// Usage:
//
//	manager, err := storage.NewManager("chess_openings", storage.PolicyOverwrite)
//	if err != nil {
//	    return err
//	}
//	err = manager.WriteFile("Ruy_Lopez_white.svg", svg)
package storage
