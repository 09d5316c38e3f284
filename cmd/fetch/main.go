package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	"weathercache/internal/app"
	"weathercache/internal/config"
	"weathercache/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "fetch",
		Short:        "Run a single forecast refresh and print today's forecast",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML config file")
	_ = cmd.MarkFlagRequired("config")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, "weathercache-fetch")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Collector.RunOnce(ctx); err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	f, err := a.Service.GetForecastByDate(ctx, today)
	if err != nil {
		return err
	}
	if f == nil {
		fmt.Printf("No forecast stored for %s\n", today)
		return nil
	}

	jsonData, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonData))
	fmt.Println()
	fmt.Println(f.Description())
	return nil
}
