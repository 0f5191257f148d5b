package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dcervan/labelbatch/internal/logging"
)

// CLI flags
var (
	portFlag int
)

var rootCmd = &cobra.Command{
	Use:   "labelbatch-web",
	Short: "Local web backend for batch image labeling",
	Long: `Labelbatch Web starts a local server exposing the labeling pipeline
over a JSON API: browse directories, start a batch, poll per-image status
and progress, and download the CSV report.

The Vision API key is supplied per request via the X-Api-Key header and is
never persisted.

Examples:
  labelbatch-web
  labelbatch-web --port 9090`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/browse", handleBrowse)
	mux.HandleFunc("/api/pick", handlePick)
	mux.HandleFunc("/api/batch/start", handleBatchStart)
	mux.HandleFunc("/api/batch/status", handleBatchStatus)
	mux.HandleFunc("/api/batch/export", handleBatchExport)
	mux.HandleFunc("/api/batch/clear", handleBatchClear)
	mux.HandleFunc("/api/images/metadata", handleImageMetadata)

	addr := fmt.Sprintf("127.0.0.1:%d", portFlag)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt, then drain
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
