// File path: cmd/frameshift/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/frameshift-dev/frameshift/internal/advisor"
	"github.com/frameshift-dev/frameshift/internal/api"
	"github.com/frameshift-dev/frameshift/internal/catalog"
	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/migrate"
	"github.com/frameshift-dev/frameshift/internal/report"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

func main() {
	logger := common.Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Debug("frameshift: .env file not loaded", "error", err)
	} else {
		logger.Info("frameshift: environment loaded from .env")
	}

	cfg, err := migrate.LoadConfig()
	if err != nil {
		fail("config error", err)
	}

	storePath := flag.String("store", cfg.StorePath, "path to the migration tracker file")
	catalogPath := flag.String("catalog", cfg.CatalogPath, "path to the SQLite audit catalog (empty disables it)")
	outputDir := flag.String("output", cfg.OutputDir, "output root for generated components")
	roots := flag.String("roots", strings.Join(cfg.SourceRoots, ","), "comma-separated source roots to scan")
	batchSize := flag.Int("batch-size", cfg.BatchSize, "components per batch")
	skipOnError := flag.Bool("skip-on-error", cfg.SkipOnError, "record failing components as skipped instead of aborting the batch")
	autoDeps := flag.Bool("detect-deps", cfg.AutoDetectDependencies, "rebuild the dependency graph during discovery")
	serve := flag.Bool("serve", false, "start the HTTP API instead of running a one-shot command")
	addr := flag.String("addr", ":8084", "listen address for -serve")
	flag.Parse()

	cfg.StorePath = strings.TrimSpace(*storePath)
	cfg.CatalogPath = strings.TrimSpace(*catalogPath)
	cfg.OutputDir = strings.TrimSpace(*outputDir)
	if trimmed := strings.TrimSpace(*roots); trimmed != "" {
		cfg.SourceRoots = splitList(trimmed)
	}
	cfg.BatchSize = *batchSize
	cfg.SkipOnError = *skipOnError
	cfg.AutoDetectDependencies = *autoDeps
	if err := cfg.Validate(); err != nil {
		fail("config error", err)
	}

	store, err := tracker.Load(cfg.StorePath)
	if err != nil {
		fail("tracker error", err)
	}

	var cat *catalog.Store
	if cfg.CatalogPath != "" {
		cat, err = catalog.Open(cfg.CatalogPath)
		if err != nil {
			logger.Warn("frameshift: catalog unavailable, continuing without audit trail", "error", err)
		} else {
			defer cat.Close()
		}
	}

	manager := migrate.NewManager(cfg, store, migrate.Options{
		Catalog: cat,
		Advisor: advisor.New(),
	})

	if *serve {
		runServer(ctx, manager, cat, *addr)
		return
	}

	command := flag.Arg(0)
	if command == "" {
		command = "run"
	}
	if err := runCommand(ctx, manager, command); err != nil {
		fail(command+" error", err)
	}
}

func runCommand(ctx context.Context, manager *migrate.Manager, command string) error {
	logger := common.Logger()
	switch command {
	case "discover":
		result, err := manager.Discover(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Discovery complete:", result.Describe())
	case "plan":
		plan := manager.Plan()
		if len(plan) == 0 {
			fmt.Println("Nothing left to migrate.")
			return nil
		}
		for i, meta := range plan {
			fmt.Printf("%3d. %s (%s, complexity %d, %d dependents)\n",
				i+1, meta.Name, meta.Type, meta.Complexity, len(meta.Dependents))
		}
	case "migrate":
		result, err := manager.MigrateBatch(ctx)
		if err != nil {
			return err
		}
		if result.Done {
			fmt.Println("No components left to migrate.")
			return nil
		}
		fmt.Printf("Batch complete: %d migrated, %d skipped, %d failed\n",
			result.Completed, result.Skipped, result.Failed)
		fmt.Println(report.Progress(manager.Store().Stats()))
	case "run":
		if _, err := manager.Discover(ctx); err != nil {
			return err
		}
		result, err := manager.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Migration complete: %d migrated, %d skipped, %d failed over %d batches\n",
			result.Completed, result.Skipped, result.Failed, result.Batches)
		fmt.Println(report.Progress(manager.Store().Stats()))
	case "report":
		fmt.Println(report.Markdown(manager.Store()))
	default:
		logger.Error("frameshift: unknown command", "command", command)
		return fmt.Errorf("unknown command %q (want discover, plan, migrate, run or report)", command)
	}
	return nil
}

func runServer(ctx context.Context, manager *migrate.Manager, cat *catalog.Store, addr string) {
	logger := common.Logger()
	server, err := api.NewServer(manager, cat)
	if err != nil {
		fail("server error", err)
	}
	httpServer := &http.Server{Addr: addr, Handler: server}
	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()
	logger.Info("frameshift: server listening", "addr", addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("frameshift: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func fail(prefix string, err error) {
	common.Logger().Error("frameshift: "+prefix, "error", err)
	fmt.Fprintln(os.Stderr, prefix+":", err)
	os.Exit(1)
}
