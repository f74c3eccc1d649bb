package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"chesskit/pkg/diagram"
	"chesskit/pkg/logger"
	"chesskit/pkg/openings"
	"chesskit/pkg/storage"
	"chesskit/pkg/ui"
)

var (
	// Diagrams command flags
	diagramDir   string
	outputPolicy string
	padding      int
	noCrop       bool
	noOverlay    bool
	openingsFile string
	workers      int
)

// diagramsCmd represents the diagrams command
var diagramsCmd = &cobra.Command{
	Use:   "diagrams",
	Short: "Render opening diagrams as SVG and PNG",
	Long: `Render one SVG and one PNG diagram per opening.

Each diagram shows the board from White's side, cropped to the ranks White
occupies. Pieces still on their starting square are drawn beneath a gray
overlay; pieces that have moved are drawn above it.

Without --openings the five built-in openings are rendered.`,
	Example: `  # Render the built-in openings into ./chess_openings
  chesskit diagrams

  # Keep one extra rank above White's pieces and refuse to touch existing output
  chesskit diagrams --padding 1 --policy fail-if-exists

  # Render a custom table with four workers
  chesskit diagrams --openings openings.yaml --workers 4`,
	Args: cobra.NoArgs,
	RunE: runDiagrams,
}

func init() {
	rootCmd.AddCommand(diagramsCmd)

	diagramsCmd.Flags().StringVarP(&diagramDir, "output", "o", "", "output directory (default: chess_openings)")
	diagramsCmd.Flags().StringVar(&outputPolicy, "policy", "", "existing output handling: overwrite, fail-if-exists or merge (default: overwrite)")
	diagramsCmd.Flags().IntVar(&padding, "padding", 0, "extra ranks shown above White's highest piece")
	diagramsCmd.Flags().BoolVar(&noCrop, "no-crop", false, "show the full board")
	diagramsCmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "draw every piece without the overlay")
	diagramsCmd.Flags().StringVar(&openingsFile, "openings", "", "YAML file with the openings to render")
	diagramsCmd.Flags().IntVar(&workers, "workers", 1, "number of diagrams rendered concurrently")
}

func runDiagrams(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("output") {
		flags["diagram-dir"] = diagramDir
	}
	if cmd.Flags().Changed("policy") {
		flags["output-policy"] = outputPolicy
	}
	if cmd.Flags().Changed("padding") {
		flags["padding"] = padding
	}
	if cmd.Flags().Changed("workers") {
		flags["workers"] = workers
	}
	if cmd.Flags().Changed("openings") {
		flags["openings-file"] = openingsFile
	}
	if noCrop {
		flags["crop"] = false
	}
	if noOverlay {
		flags["overlay"] = false
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	list := openings.Defaults()
	if cfg.Diagrams.OpeningsFile != "" {
		list, err = openings.LoadFile(cfg.Diagrams.OpeningsFile)
		if err != nil {
			return err
		}
	}

	policy, err := storage.ParsePolicy(cfg.Diagrams.OutputPolicy)
	if err != nil {
		return err
	}
	manager, err := storage.NewManager(cfg.Diagrams.OutputDir, policy)
	if err != nil {
		return err
	}

	ui.PrintInfo("Output", manager.GetOutputDir())
	ui.PrintInfo("Openings", fmt.Sprint(len(list)))

	gen := diagram.NewGenerator(manager, diagram.Options{
		Size:    cfg.Diagrams.Size,
		Padding: cfg.Diagrams.Padding,
		Crop:    cfg.Diagrams.Crop,
		Overlay: cfg.Diagrams.Overlay,
		Scale:   cfg.Diagrams.Scale,
	}, log)

	progress := ui.NewProgress("[diagrams]", len(list))
	batch := openings.NewBatch(gen, cfg.Diagrams.Workers, log)
	batch.OnProgress(func(name string, err error) {
		progress.Step(err != nil)
		progress.PrintStep(name, err)
	})

	report := batch.Run(cmd.Context(), list)

	if len(report.Failed) == 0 {
		ui.PrintSuccess(report.Summary())
		return nil
	}

	ui.PrintWarning(report.Summary())
	names := make([]string, 0, len(report.Failed))
	for name := range report.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ui.PrintError("  "+name, report.Failed[name])
	}
	return fmt.Errorf("%d of %d diagrams failed", len(report.Failed), report.Total)
}
