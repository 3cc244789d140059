// File path: internal/migrate/config.go
package migrate

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/frameshift-dev/frameshift/internal/planner"
)

// Config is the immutable run configuration for a migration.
type Config struct {
	StorePath   string   `json:"store_path"`
	CatalogPath string   `json:"catalog_path"`
	OutputDir   string   `json:"output_dir"`
	SourceRoots []string `json:"source_roots"`

	AutoDetectDependencies bool `json:"auto_detect_dependencies"`
	SkipOnError            bool `json:"skip_on_error"`
	BatchSize              int  `json:"batch_size"`

	Factors planner.Factors `json:"prioritization_factors"`
}

// DefaultConfig mirrors the stock configuration: JSON tracker file and
// generated output in the working directory, dependency detection on,
// failures skipped rather than aborting, batches of ten.
func DefaultConfig() Config {
	return Config{
		StorePath:              "migration_tracker.json",
		CatalogPath:            "migration_catalog.db",
		OutputDir:              "generated/leptos",
		AutoDetectDependencies: true,
		SkipOnError:            true,
		BatchSize:              10,
		Factors:                planner.DefaultFactors(),
	}
}

// LoadConfig builds the run configuration from defaults overlaid with
// FRAMESHIFT_* environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(os.Getenv("FRAMESHIFT_STORE_PATH")); v != "" {
		cfg.StorePath = v
	}
	if v := strings.TrimSpace(os.Getenv("FRAMESHIFT_CATALOG_PATH")); v != "" {
		cfg.CatalogPath = v
	}
	if v := strings.TrimSpace(os.Getenv("FRAMESHIFT_OUTPUT_DIR")); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("FRAMESHIFT_SOURCE_ROOTS")); v != "" {
		cfg.SourceRoots = splitRoots(v)
	}
	if v := strings.TrimSpace(os.Getenv("FRAMESHIFT_AUTO_DETECT_DEPENDENCIES")); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse FRAMESHIFT_AUTO_DETECT_DEPENDENCIES: %w", err)
		}
		cfg.AutoDetectDependencies = parsed
	}
	if v := strings.TrimSpace(os.Getenv("FRAMESHIFT_SKIP_ON_ERROR")); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse FRAMESHIFT_SKIP_ON_ERROR: %w", err)
		}
		cfg.SkipOnError = parsed
	}
	if v := strings.TrimSpace(os.Getenv("FRAMESHIFT_BATCH_SIZE")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse FRAMESHIFT_BATCH_SIZE: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse FRAMESHIFT_BATCH_SIZE: must be positive, got %d", parsed)
		}
		cfg.BatchSize = parsed
	}
	return cfg, nil
}

// Validate reports configuration that cannot drive a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.StorePath) == "" {
		return errors.New("store path required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output dir required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}

func splitRoots(v string) []string {
	var roots []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roots = append(roots, trimmed)
		}
	}
	return roots
}
