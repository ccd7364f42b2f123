package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/evogrid/internal/controller"
	"github.com/vk/evogrid/internal/metrics"
	"github.com/vk/evogrid/internal/registry"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

// App holds the dependencies of one invocation.
type App struct {
	outW       io.Writer
	logW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	recorder   *metrics.Recorder
	config     *Config
	httpServer *http.Server
	ctl        *controller.Controller
}

// NewApp builds an App. Script output goes to outW and logs to logW. The
// core modules are always registered; plugins add further module types.
func NewApp(outW, logW io.Writer, cfg *Config, plugins ...registry.Plugin) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	rec := metrics.New()
	plugins = append(coreModules(rec, outW), plugins...)
	reg := registry.New(plugins...)
	logger.Debug("Module plugins registered.", "plugins", len(plugins), "types", len(reg.Types()))

	return &App{
		outW:     outW,
		logW:     logW,
		logger:   logger,
		registry: reg,
		recorder: rec,
		config:   cfg,
	}
}

// Registry returns the module registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Recorder returns the metrics recorder served on the metrics port.
func (a *App) Recorder() *metrics.Recorder { return a.recorder }

// Controller returns the controller of the last run, or nil.
func (a *App) Controller() *controller.Controller { return a.ctl }
