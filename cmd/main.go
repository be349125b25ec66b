package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rajanjha2004/HotelData/internal/config"
	"github.com/rajanjha2004/HotelData/internal/dashboard"
)

var rootCmd = &cobra.Command{
	Use:   "hoteldata",
	Short: "Hotel order analysis dashboard",
	Long: `hoteldata serves a dashboard that loads hotel order history, shows when and
what guests order, forecasts order volume and recommends staffing levels.

Settings are read from the YAML file named by HOTELDATA_CONFIG and from
HOTELDATA_* environment variables, e.g. HOTELDATA_FORECAST_HORIZON=14.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().String("host", "", "Address to listen on (overrides server.host)")
	rootCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(os.Getenv("HOTELDATA_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := dashboard.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dashboard: %w", err)
	}

	// Preload the configured source so the dashboard opens with data
	if cfg.Data.Source != "" {
		sess, err := server.OpenSource(ctx, cfg.Data.Source)
		if err != nil {
			log.Printf("Failed to load %s: %v", cfg.Data.Source, err)
		} else {
			log.Printf("Session %s ready at http://%s/api/sessions/%s", sess.ID, cfg.Addr(), sess.ID)
		}
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down dashboard...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Dashboard shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting dashboard on %s", cfg.Addr())
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("dashboard server error: %w", err)
	}
	return nil
}
