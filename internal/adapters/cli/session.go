package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/andrescamacho/minehaul-go/internal/adapters/metrics"
	"github.com/andrescamacho/minehaul-go/internal/adapters/persistence"
	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/queries"
	applogging "github.com/andrescamacho/minehaul-go/internal/application/logging"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/infrastructure/config"
	"github.com/andrescamacho/minehaul-go/internal/infrastructure/database"
	"github.com/andrescamacho/minehaul-go/internal/infrastructure/logging"
)

// session wires configuration, logging, storage, metrics and the mediator
// for a single CLI invocation
type session struct {
	cfg       *config.Config
	logger    applogging.Logger
	logCloser io.Closer
	db        *gorm.DB
	planRepo  dispatch.PlanRepository
	med       mediator.Mediator
	server    *http.Server
}

// newSession builds the session. withStore opens the plan database.
func newSession(withStore bool) (*session, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	} else if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, closer, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return nil, err
	}
	rt := &session{cfg: cfg, logger: logger.WithDedupWindow(time.Second), logCloser: closer}

	if withStore {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			rt.close()
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			rt.db = db
			rt.close()
			return nil, fmt.Errorf("failed to migrate plan store: %w", err)
		}
		rt.db = db
		rt.planRepo = persistence.NewGormPlanRepository(db)
	}

	var commandCollector *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		commandCollector, err = setupMetrics()
		if err != nil {
			rt.close()
			return nil, err
		}
	}

	rt.med = mediator.NewMediator()
	rt.med.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))
	if err := rt.registerHandlers(); err != nil {
		rt.close()
		return nil, err
	}

	return rt, nil
}

func (rt *session) registerHandlers() error {
	registrations := []error{
		mediator.RegisterHandler[*commands.PlanDispatchCommand](rt.med, commands.NewPlanDispatchHandler(rt.planRepo, nil)),
		mediator.RegisterHandler[*commands.DeletePlanCommand](rt.med, commands.NewDeletePlanHandler(rt.planRepo)),
		mediator.RegisterHandler[*queries.ReplayPlanQuery](rt.med, queries.NewReplayPlanHandler(rt.planRepo)),
		mediator.RegisterHandler[*queries.ListPlansQuery](rt.med, queries.NewListPlansHandler(rt.planRepo)),
		mediator.RegisterHandler[*queries.GetPlanQuery](rt.med, queries.NewGetPlanHandler(rt.planRepo)),
	}
	for _, err := range registrations {
		if err != nil {
			return fmt.Errorf("failed to register handler: %w", err)
		}
	}
	return nil
}

func setupMetrics() (*metrics.CommandMetricsCollector, error) {
	metrics.InitRegistry()

	solverCollector := metrics.NewSolverMetricsCollector()
	playbackCollector := metrics.NewPlaybackMetricsCollector()
	commandCollector := metrics.NewCommandMetricsCollector()
	for _, c := range []interface{ Register() error }{solverCollector, playbackCollector, commandCollector} {
		if err := c.Register(); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	metrics.SetGlobalSolverCollector(solverCollector)
	metrics.SetGlobalPlaybackCollector(playbackCollector)

	return commandCollector, nil
}

// context attaches the session logger to ctx
func (rt *session) context(ctx context.Context) context.Context {
	return applogging.WithLogger(ctx, rt.logger)
}

// serveMetrics exposes the registry over HTTP while a long command runs
func (rt *session) serveMetrics() error {
	if !metrics.IsEnabled() || rt.cfg.Metrics.Port == 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(rt.cfg.Metrics.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	addr := net.JoinHostPort(rt.cfg.Metrics.Host, strconv.Itoa(rt.cfg.Metrics.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}

	rt.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := rt.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.logger.Log(applogging.LevelError, "Metrics server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()
	rt.logger.Log(applogging.LevelInfo, "Serving metrics", map[string]interface{}{"address": addr, "path": rt.cfg.Metrics.Path})
	return nil
}

// close flushes metrics and releases every resource; safe on a partial session
func (rt *session) close() {
	if rt.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = rt.server.Shutdown(ctx)
		cancel()
	}
	if metrics.IsEnabled() && rt.cfg != nil && rt.cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(rt.cfg.Metrics.Textfile, metrics.GetRegistry()); err != nil && rt.logger != nil {
			rt.logger.Log(applogging.LevelWarn, "Failed to write metrics textfile", map[string]interface{}{"error": err.Error()})
		}
	}
	metrics.Reset()
	if rt.db != nil {
		_ = database.Close(rt.db)
	}
	if rt.logCloser != nil {
		_ = rt.logCloser.Close()
	}
}
