package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chesskit/pkg/archive"
	"chesskit/pkg/chesscom"
	"chesskit/pkg/logger"
	"chesskit/pkg/ratelimit"
	"chesskit/pkg/ui"
)

var (
	// Download command flags
	gamesDir  string
	startDate string
	endDate   string
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <username>",
	Short: "Download a chess.com player's games as PGN",
	Long: `Download the public game history of a chess.com player.

Games are grouped by month into <output>/<YYYY>-<MM>.pgn. Repeated runs append
to existing files. The player must exist and have a public profile.`,
	Example: `  # Download every game into ./games
  chesskit download hikaru

  # Download the first half of 2023 into ./archive
  chesskit download hikaru -o archive --start-date 2023-01 --end-date 2023-06`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&gamesDir, "output", "o", "games", "output directory for PGN files")
	downloadCmd.Flags().StringVar(&startDate, "start-date", "", "first month to download (YYYY-MM)")
	downloadCmd.Flags().StringVar(&endDate, "end-date", "", "last month to download (YYYY-MM)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	username := args[0]

	rng, err := archive.ParseRange(startDate, endDate)
	if err != nil {
		return err
	}

	flags := make(map[string]interface{})
	if cmd.Flags().Changed("output") {
		flags["download-dir"] = gamesDir
	}
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	limiter, err := ratelimit.New(cfg.RateLimit)
	if err != nil {
		return err
	}

	ui.PrintInfo("Player", username)
	ui.PrintInfo("Output", cfg.Download.OutputDir)

	client := chesscom.NewClient(cfg.API, log)
	downloader := archive.NewDownloader(client, limiter, log)

	summary, err := downloader.Download(cmd.Context(), username, cfg.Download.OutputDir, rng)
	if err != nil {
		return err
	}

	for _, m := range summary.Months {
		ui.PrintInfo(m.Month.String(), fmt.Sprintf("saved %d games to %s", m.Games, m.File))
	}
	for _, url := range summary.FailedArchives() {
		ui.PrintWarning("Error processing archive "+url, summary.Failed[url])
	}

	ui.PrintSuccess(fmt.Sprintf("\nDownload complete! Total games downloaded: %d", summary.Total))
	return nil
}
