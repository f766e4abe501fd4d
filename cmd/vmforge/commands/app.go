package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmforge/vmforge/pkg/builder"
	"github.com/vmforge/vmforge/pkg/catalog"
	"github.com/vmforge/vmforge/pkg/config"
	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/pricing"
	"github.com/vmforge/vmforge/pkg/providers"
	"github.com/vmforge/vmforge/pkg/stores"
	"github.com/vmforge/vmforge/pkg/telemetry"
	"github.com/vmforge/vmforge/pkg/templates"
)

// app bundles the wired engine for command execution.
type app struct {
	cfg         *config.Config
	tcfg        *telemetry.Config
	telemetry   *telemetry.Telemetry
	coordinator *engine.Coordinator
	store       *stores.SQLiteStore
}

// newApp wires catalog, builder, factories, templates, pricing, and
// telemetry from the configuration.
func newApp(ctx context.Context, version string) (*app, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	tcfg := cfg.TelemetrySettings(version)
	if verbose {
		tcfg.Logging.Level = "debug"
	}
	tel, err := telemetry.New(ctx, tcfg)
	if err != nil {
		return nil, err
	}

	var ext *catalog.File
	if cfg.Catalog.ExtensionsPath != "" {
		ext, err = catalog.LoadFile(cfg.Catalog.ExtensionsPath)
		if err != nil {
			return nil, err
		}
	}
	cat := catalog.BuiltinWithExtensions(ext)

	specBuilder := builder.New()
	registry := providers.NewDefaultRegistry()

	var store *stores.SQLiteStore
	var templateOpts []templates.Option
	if cfg.Store.Enabled {
		store, err = stores.NewSQLiteStore(stores.Config{
			Path:            cfg.Store.Path,
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		templateOpts = append(templateOpts, templates.WithStore(store))
	}

	templateRegistry := templates.NewRegistry(specBuilder, templateOpts...)
	if store != nil {
		if err := templateRegistry.LoadFromStore(ctx); err != nil {
			return nil, err
		}
	}
	if err := templates.RegisterBuiltins(ctx, templateRegistry); err != nil {
		return nil, err
	}

	coordinator := engine.NewCoordinator(
		cat,
		specBuilder,
		registry,
		templateRegistry,
		pricing.NewCalculator(),
		engine.WithMetrics(tel.Metrics),
		engine.WithTracer(tel.Tracer),
		engine.WithEvents(tel.Events),
	)

	return &app{
		cfg:         cfg,
		tcfg:        tcfg,
		telemetry:   tel,
		coordinator: coordinator,
		store:       store,
	}, nil
}

// close releases app resources.
func (a *app) close(ctx context.Context) {
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.telemetry.Shutdown(ctx)
}

// printResult emits v as indented JSON or a fallback string.
func printResult(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
