package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dcervan/labelbatch/internal/auth"
	"github.com/dcervan/labelbatch/internal/batch"
	"github.com/dcervan/labelbatch/internal/cli"
	"github.com/dcervan/labelbatch/internal/filehandler"
	"github.com/dcervan/labelbatch/internal/logging"
	"github.com/dcervan/labelbatch/internal/report"
)

// CLI flags
var (
	directoryFlag string
	outFlag       string
	maxSizeMBFlag float64
	delayFlag     time.Duration
	maxDepthFlag  int
	limitFlag     int
	showExifFlag  bool
)

// rootCmd is the main Cobra command for the labelbatch CLI.
var rootCmd = &cobra.Command{
	Use:   "labelbatch",
	Short: "Batch image labeling via Cloud Vision with a CSV report",
	Long: `Labelbatch scans a directory of images, sends each one to the Cloud
Vision API for label and web detection, and writes the merged results to a
CSV report (name, path, size, dimensions, description, category, tags).

Images are processed strictly one at a time. A failing image is reported
and skipped; the batch always runs to completion.

The API key is read from VISION_API_KEY or requested interactively; it is
never written to disk.

Examples:
  labelbatch --directory /path/to/photos
  labelbatch -d ./vacation-photos -o vacation.csv
  labelbatch -d ./photos --max-size-mb 4 --delay 500ms
  labelbatch -d ./photos --max-depth 2 --limit 100 --show-exif
  labelbatch  # Interactive mode - prompts for directory`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&directoryFlag, "directory", "d", "", "Directory containing images to label")
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", "report.csv", "Output CSV report path")
	rootCmd.Flags().Float64Var(&maxSizeMBFlag, "max-size-mb", 10, "Maximum image size in MB; larger files are skipped")
	rootCmd.Flags().DurationVar(&delayFlag, "delay", batch.DefaultDelay, "Pause between images (rate-limiting courtesy)")
	rootCmd.Flags().IntVar(&maxDepthFlag, "max-depth", 0, "Maximum recursion depth (0 = unlimited)")
	rootCmd.Flags().IntVar(&limitFlag, "limit", 0, "Maximum images to process (0 = unlimited)")
	rootCmd.Flags().BoolVar(&showExifFlag, "show-exif", false, "Print EXIF metadata for each image before the run")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	dirPath := directoryFlag
	if dirPath == "" {
		dirPath = cli.PromptForDirectory()
	}
	dirPath = cli.ValidateAndResolveDirectory(dirPath)

	apiKey, err := auth.GetAPIKey()
	if err != nil {
		apiKey = cli.PromptForAPIKey()
	}
	if apiKey == "" {
		log.Fatal().Msg("No API key provided - cannot start batch")
	}

	runBatch(context.Background(), dirPath, apiKey)
}

// runBatch scans a directory, labels every accepted image, and writes the CSV report.
func runBatch(ctx context.Context, dirPath, apiKey string) {
	log.Info().
		Str("path", dirPath).
		Int("max_depth", maxDepthFlag).
		Int("limit", limitFlag).
		Float64("max_size_mb", maxSizeMBFlag).
		Msg("Starting image labeling batch")

	files, err := filehandler.ScanDirectoryWithOptions(dirPath, filehandler.ScanOptions{
		MaxDepth: maxDepthFlag,
		Limit:    limitFlag,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", dirPath).Msg("failed to scan directory")
	}

	if len(files) == 0 {
		log.Fatal().Str("path", dirPath).Msg("no supported images found in directory")
	}

	accepted, rejected := filehandler.FilterBySize(files, maxSizeMBFlag)
	if rejected > 0 {
		log.Warn().
			Int("rejected", rejected).
			Float64("max_size_mb", maxSizeMBFlag).
			Msg("Some images exceed the size limit and were skipped")
	}
	if len(accepted) == 0 {
		log.Fatal().Msg("all images exceed the size limit - nothing to process")
	}

	fmt.Println()
	fmt.Println("============================================")
	fmt.Println("Image Labeling Batch")
	fmt.Println("============================================")
	fmt.Printf("Directory: %s\n", dirPath)
	fmt.Printf("Images found: %d\n", len(files))
	if rejected > 0 {
		fmt.Printf("Skipped (over %.1f MB): %d\n", maxSizeMBFlag, rejected)
	}
	if limitFlag > 0 && len(files) == limitFlag {
		fmt.Printf("(limited to %d)\n", limitFlag)
	}
	fmt.Printf("Report: %s\n", outFlag)
	fmt.Println("--------------------------------------------")

	if showExifFlag {
		printEXIF(accepted)
	}

	orchestrator := batch.NewOrchestrator().
		WithDelay(delayFlag).
		WithNotifier(&consoleNotifier{total: len(accepted)})

	records, err := orchestrator.Run(ctx, accepted, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("batch run failed")
	}

	if err := report.Export(outFlag, records); err != nil {
		log.Fatal().Err(err).Str("path", outFlag).Msg("failed to write CSV report")
	}

	fmt.Println("--------------------------------------------")
	fmt.Printf("Labeled: %d/%d\n", len(records), len(accepted))
	fmt.Printf("Report written to %s\n", outFlag)
}

// printEXIF prints a short EXIF summary per image.
func printEXIF(files []*filehandler.ImageFile) {
	for _, f := range files {
		fmt.Printf("%s\n", f.Name)
		info, err := filehandler.ExtractEXIF(f.Path)
		if err != nil {
			fmt.Println("  no EXIF metadata")
			continue
		}
		fmt.Print(info.FormatSummary())
	}
	fmt.Println("--------------------------------------------")
}
