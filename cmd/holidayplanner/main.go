package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/cache"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/config"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/engine"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/handler"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/itinerary"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/obs"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/ratelimit"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/scheduler"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/skyscanner"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/snapshot"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/currency"
)

var configFile string

func main() {
	if err := buildRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "holidayplanner",
		Short: "Find the cheapest multi-leg flight itinerary within a travel window",
		Long: `holidayplanner resolves a multi-leg trip description against a remote
flight-search service, honoring per-leg stay-duration bounds and a global
travel window, and ranks the complete itineraries by total price.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")

	root.AddCommand(buildResolveCommand())
	root.AddCommand(buildServeCommand())
	root.AddCommand(buildWatchCommand())

	return root
}

// planner bundles the wired engine and its collaborators for one process.
type planner struct {
	cfg     *config.Config
	store   cache.Store
	client  *skyscanner.Client
	engine  *engine.Engine
	metrics *obs.Metrics
}

func newPlanner(needCredentials bool) (*planner, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if needCredentials {
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, err
		}
	}

	var store cache.Store
	switch cfg.Cache.Backend {
	case "file":
		store, err = cache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		log.Printf("[planner] file cache enabled at %s", cfg.Cache.Dir)
	case "redis":
		store, err = cache.NewRedisStore(cache.RedisConfig{
			Host: cfg.Cache.RedisHost,
			Port: cfg.Cache.RedisPort,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Printf("[planner] redis cache enabled at %s:%s", cfg.Cache.RedisHost, cfg.Cache.RedisPort)
	default:
		store = cache.NewNoOpCache()
		log.Println("[planner] cache disabled")
	}

	metrics := obs.NewMetrics(prometheus.NewRegistry())
	limiter := ratelimit.NewEndpointLimiterWithDefaults()
	for endpoint, rl := range cfg.API.RateLimits {
		limiter.SetEndpointLimit(endpoint, rl.RPS, rl.Burst)
		log.Printf("[planner] rate limit for %s: %.1f rps, burst %d", endpoint, rl.RPS, rl.Burst)
	}

	client := skyscanner.New(skyscanner.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		APIHost: cfg.API.Host,
	}, store, limiter, metrics)

	return &planner{
		cfg:     cfg,
		store:   store,
		client:  client,
		engine:  engine.New(client, metrics, cfg.Workers),
		metrics: metrics,
	}, nil
}

func (p *planner) Close() {
	if err := p.store.Close(); err != nil {
		log.Printf("[planner] closing cache: %v", err)
	}
}

func buildResolveCommand() *cobra.Command {
	var leave, ret, itineraryPath, outPath string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one itinerary and write the ranked results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), leave, ret, itineraryPath, outPath)
		},
	}

	cmd.Flags().StringVar(&leave, "leave", "", "earliest departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ret, "return", "", "latest return date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&itineraryPath, "itinerary", "", "itinerary JSON file (omit to build interactively)")
	cmd.Flags().StringVar(&outPath, "out", "final_result.json", "result artifact path")
	cmd.MarkFlagRequired("leave")
	cmd.MarkFlagRequired("return")

	return cmd
}

func runResolve(ctx context.Context, leave, ret, itineraryPath, outPath string) error {
	window := models.TripWindow{StartDate: leave, EndDate: ret}
	if err := window.Validate(time.Now()); err != nil {
		return err
	}

	p, err := newPlanner(true)
	if err != nil {
		return err
	}
	defer p.Close()

	var it models.Itinerary
	if itineraryPath != "" {
		it, err = itinerary.Load(itineraryPath)
		if err != nil {
			return err
		}
	} else {
		builder := itinerary.NewBuilder(p.client, os.Stdin, os.Stdout, 3)
		it, err = builder.Build(ctx)
		if err != nil {
			return err
		}
		if err := snapshot.Write("itinerary.json", it); err != nil {
			return err
		}
		log.Println("[planner] itinerary saved to itinerary.json")
	}

	if err := window.FitsStayBounds(it); err != nil {
		return err
	}

	result, err := p.engine.Resolve(ctx, window, it)
	if err != nil {
		return err
	}

	// Enriched legs are useful when debugging why a route produced few
	// candidates.
	if err := snapshot.Write("itinerary_semi.json", it); err != nil {
		return err
	}
	if err := snapshot.Write(outPath, result.Itineraries); err != nil {
		return err
	}

	printSummary(result)
	log.Printf("[planner] %d itineraries written to %s", len(result.Itineraries), outPath)
	return nil
}

func printSummary(result *engine.Result) {
	if len(result.Itineraries) == 0 {
		fmt.Println("No complete itineraries found for the given window and constraints.")
		return
	}

	top := result.Itineraries
	if len(top) > 5 {
		top = top[:5]
	}
	fmt.Printf("Top %d of %d itineraries:\n", len(top), len(result.Itineraries))
	for i, itin := range top {
		fmt.Printf("%d. %s\n", i+1, currency.FormatEUR(itin.Total))
		for _, leg := range itin.Legs {
			fmt.Printf("   %s → %s on %s, %s (dep %s)\n",
				leg.FromEntityID, leg.ToEntityID, leg.Date,
				currency.FormatEUR(leg.Price), leg.Departure)
		}
	}
}

func buildServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolution engine over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	p, err := newPlanner(true)
	if err != nil {
		return err
	}
	defer p.Close()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	resolveHandler := handler.NewResolveHandler(p.engine)

	api := e.Group("/api/v1")
	api.POST("/itineraries/resolve", resolveHandler.Resolve)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(p.metrics.Handler()))

	log.Printf("[planner] starting server on port %s", p.cfg.Port)
	return e.Start(":" + p.cfg.Port)
}

func buildWatchCommand() *cobra.Command {
	var leave, ret, itineraryPath, outPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve an itinerary periodically to track fare changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), leave, ret, itineraryPath, outPath)
		},
	}

	cmd.Flags().StringVar(&leave, "leave", "", "earliest departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ret, "return", "", "latest return date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&itineraryPath, "itinerary", "", "itinerary JSON file")
	cmd.Flags().StringVar(&outPath, "out", "final_result.json", "result artifact path")
	cmd.MarkFlagRequired("leave")
	cmd.MarkFlagRequired("return")
	cmd.MarkFlagRequired("itinerary")

	return cmd
}

func runWatch(ctx context.Context, leave, ret, itineraryPath, outPath string) error {
	window := models.TripWindow{StartDate: leave, EndDate: ret}
	if err := window.Validate(time.Now()); err != nil {
		return err
	}

	p, err := newPlanner(true)
	if err != nil {
		return err
	}
	defer p.Close()

	sched := scheduler.New(p.cfg.WatchInt, func(ctx context.Context) error {
		it, err := itinerary.Load(itineraryPath)
		if err != nil {
			return err
		}
		if err := window.FitsStayBounds(it); err != nil {
			return err
		}

		result, err := p.engine.Resolve(ctx, window, it)
		if err != nil {
			return err
		}
		if err := snapshot.Write(outPath, result.Itineraries); err != nil {
			return err
		}

		if len(result.Itineraries) > 0 {
			log.Printf("[watch] best itinerary currently %s", currency.FormatEUR(result.Itineraries[0].Total))
		} else {
			log.Println("[watch] no complete itineraries this round")
		}
		return nil
	})

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	return nil
}
