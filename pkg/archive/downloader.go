package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	errs "chesskit/pkg/errors"
	"chesskit/pkg/logger"
	"chesskit/pkg/models"
	"chesskit/pkg/ratelimit"
	"chesskit/pkg/storage"
)

// ErrAccountUnavailable is returned when the player does not exist or is private
var ErrAccountUnavailable = errors.New("account unavailable")

// API is the remote game service
type API interface {
	FetchProfile(ctx context.Context, username string) (*models.Profile, error)
	ListArchives(ctx context.Context, username string) ([]string, error)
	FetchMonth(ctx context.Context, archiveURL string) ([]models.Game, error)
}

// MonthResult records the games saved for one month
type MonthResult struct {
	Month Month
	Games int
	File  string
}

// Summary describes a finished download
type Summary struct {
	Username string
	// Total is the number of games written
	Total  int
	Months []MonthResult
	// Skipped holds archives outside the requested range
	Skipped []string
	// Failed maps archive URLs to the error that stopped them
	Failed map[string]error
}

// FailedArchives returns the failed archive URLs in sorted order
func (s *Summary) FailedArchives() []string {
	urls := make([]string, 0, len(s.Failed))
	for url := range s.Failed {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

// Downloader copies a player's monthly archives into PGN files
type Downloader struct {
	api     API
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// NewDownloader creates a downloader. A nil limiter never waits.
func NewDownloader(api API, limiter ratelimit.Limiter, log logger.Logger) *Downloader {
	if limiter == nil {
		limiter = ratelimit.NewInterval(0)
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{api: api, limiter: limiter, logger: log}
}

// CheckAccount returns nil when the player exists and is public. Otherwise
// the error wraps ErrAccountUnavailable and explains why.
func (d *Downloader) CheckAccount(ctx context.Context, username string) error {
	_, err := d.api.FetchProfile(ctx, username)
	if err == nil {
		return nil
	}

	switch errs.TypeOf(err) {
	case errs.ErrorTypeNotFound:
		return fmt.Errorf("%w: user '%s' not found on Chess.com", ErrAccountUnavailable, username)
	case errs.ErrorTypePrivate:
		return fmt.Errorf("%w: user '%s' exists but their profile is private", ErrAccountUnavailable, username)
	case errs.ErrorTypeNetwork:
		return fmt.Errorf("%w: error checking user: %w", ErrAccountUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrAccountUnavailable, err)
	}
}

// VerifyAccount reports whether the player exists and is public
func (d *Downloader) VerifyAccount(ctx context.Context, username string) bool {
	if err := d.CheckAccount(ctx, username); err != nil {
		d.logger.WithError(err).WithField("username", username).Error("account check failed")
		return false
	}
	return true
}

// ListArchives returns the player's monthly archive URLs in API order
func (d *Downloader) ListArchives(ctx context.Context, username string) ([]string, error) {
	return d.api.ListArchives(ctx, username)
}

// FetchMonth returns the games of one archive that carry a PGN record
func (d *Downloader) FetchMonth(ctx context.Context, archiveURL string) ([]models.Game, error) {
	games, err := d.api.FetchMonth(ctx, archiveURL)
	if err != nil {
		return nil, err
	}

	var kept []models.Game
	for _, g := range games {
		if g.HasPGN() {
			kept = append(kept, g)
		}
	}
	return kept, nil
}

// Download appends every in-range month of username's games to
// <outputDir>/<YYYY>-<MM>.pgn. The account is checked before anything is
// written. Archives that fail to download are recorded in the summary and
// the run continues with the next one.
func (d *Downloader) Download(ctx context.Context, username, outputDir string, rng Range) (*Summary, error) {
	if err := d.CheckAccount(ctx, username); err != nil {
		return nil, err
	}

	manager, err := storage.NewManager(outputDir, storage.PolicyMerge)
	if err != nil {
		return nil, err
	}

	archives, err := d.ListArchives(ctx, username)
	if err != nil {
		if errs.TypeOf(err) == errs.ErrorTypePrivate {
			return nil, fmt.Errorf("%w: cannot access games for user '%s', their games might be private", ErrAccountUnavailable, username)
		}
		return nil, fmt.Errorf("error accessing game archives: %w", err)
	}

	log := d.logger.WithField("username", username)
	log.InfoWithFields("archives listed", map[string]interface{}{
		"count": len(archives),
	})

	summary := &Summary{
		Username: username,
		Failed:   make(map[string]error),
	}

	for _, archiveURL := range archives {
		month, err := MonthFromArchiveURL(archiveURL)
		if err != nil {
			log.WithError(err).Warn("skipping archive")
			summary.Failed[archiveURL] = err
			continue
		}
		if !rng.Contains(month) {
			summary.Skipped = append(summary.Skipped, archiveURL)
			continue
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		log.Info(fmt.Sprintf("Processing games from %d/%02d...", month.Year, int(month.Month)))

		games, err := d.FetchMonth(ctx, archiveURL)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.WithError(err).ErrorWithFields("error processing archive", map[string]interface{}{
				"url": archiveURL,
			})
			summary.Failed[archiveURL] = err
			continue
		}

		var buf bytes.Buffer
		for _, g := range games {
			buf.WriteString(g.PGN)
			buf.WriteString("\n\n")
		}

		if err := manager.AppendFile(month.FileName(), buf.Bytes()); err != nil {
			log.WithError(err).ErrorWithFields("error saving archive", map[string]interface{}{
				"url": archiveURL,
			})
			summary.Failed[archiveURL] = err
			continue
		}

		summary.Total += len(games)
		summary.Months = append(summary.Months, MonthResult{
			Month: month,
			Games: len(games),
			File:  manager.Path(month.FileName()),
		})
		log.Info(fmt.Sprintf("Saved %d games to %s", len(games), manager.Path(month.FileName())))
	}

	log.InfoWithFields("download finished", map[string]interface{}{
		"total":   summary.Total,
		"months":  len(summary.Months),
		"skipped": len(summary.Skipped),
		"failed":  len(summary.Failed),
	})
	return summary, nil
}
