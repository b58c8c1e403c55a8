// Command tripplanner plans a budget-constrained multi-day trip from the
// command line and prints the resulting itinerary as a text report or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripplanner/pkg/config"
	"tripplanner/pkg/gen"
	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/logx"
	"tripplanner/pkg/metrics"
	"tripplanner/pkg/orchestrator"
	"tripplanner/pkg/persistence"
	"tripplanner/pkg/search"
)

func main() {
	destination := flag.String("destination", "", "Trip destination (required)")
	days := flag.Int("days", 3, "Trip length in days (1-7)")
	budget := flag.Float64("budget", 0, "Total budget amount (required)")
	currencyCode := flag.String("currency", "USD", "Budget currency code")
	configPath := flag.String("config", "", "Path to YAML config file")
	review := flag.String("review", "", "Review action to apply automatically when the plan is flagged (approve or reduce)")
	asJSON := flag.Bool("json", false, "Print the plan as JSON instead of a text report")
	listPlans := flag.Int("list", 0, "List the N most recent stored plans and exit")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (e.g. :9090), empty disables")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall request timeout")
	flag.Parse()

	logger := logx.NewLogger("main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("configuration error: %v", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	var store *persistence.Store
	if cfg.Storage.DBPath != "" {
		store, err = persistence.Open(cfg.Storage.DBPath)
		if err != nil {
			logger.Error("failed to open plan store: %v", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	if *listPlans > 0 {
		if store == nil {
			logger.Error("listing plans requires storage.db_path in the config")
			os.Exit(1)
		}
		if err := printStoredPlans(ctx, store, *listPlans); err != nil {
			logger.Error("failed to list plans: %v", err)
			os.Exit(1)
		}
		return
	}

	if *destination == "" || *budget <= 0 {
		fmt.Fprintln(os.Stderr, "usage: tripplanner -destination <place> -budget <amount> [-days N] [-currency CODE]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	rec := metrics.NewPrometheusRecorder()
	if *metricsAddr != "" {
		go serveMetrics(logger, *metricsAddr)
	}

	client, err := gen.NewClient(cfg)
	if err != nil {
		logger.Error("failed to create generation client: %v", err)
		os.Exit(1)
	}
	generator := gen.New(client, cfg.Generation.MaxTokens)
	provider := search.NewSerperClient(cfg.SerperKey, cfg.Search.BaseURL)

	orch := orchestrator.New(cfg, provider, generator, store, rec)

	req := itinerary.TravelRequest{
		Destination:    *destination,
		Days:           *days,
		BudgetAmount:   *budget,
		BudgetCurrency: *currencyCode,
	}
	result, err := orch.PlanTrip(ctx, req)
	if err != nil {
		logger.Error("planning failed: %v", err)
		os.Exit(1)
	}

	plan := result.Plan
	if result.NeedsReview {
		for _, issue := range result.Validation.Issues {
			fmt.Fprintf(os.Stderr, "review: %s\n", issue)
		}
		if *review != "" {
			plan, err = orch.Review(ctx, result.RequestID, plan, *review)
			if err != nil {
				logger.Error("review failed: %v", err)
				os.Exit(1)
			}
		}
	}

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(plan); err != nil {
			logger.Error("failed to encode plan: %v", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(plan.TextReport())
}

func printStoredPlans(ctx context.Context, store *persistence.Store, limit int) error {
	records, err := store.ListPlans(ctx, limit)
	if err != nil {
		return err
	}
	for _, rec := range records {
		flag := " "
		if rec.NeedsReview {
			flag = "!"
		}
		fmt.Printf("%s %s  %-20s %d days  %.2f %s  %s\n",
			flag, rec.RequestID, rec.Destination, rec.Days,
			rec.Plan.TotalEstimatedCost, rec.Plan.Currency,
			rec.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func serveMetrics(logger *logx.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warn("metrics server stopped: %v", err)
	}
}
