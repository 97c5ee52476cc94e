package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slok/reload"
	gohttpmetricsprometheus "github.com/slok/go-http-metrics/metrics/prometheus"

	"github.com/slok/slafeed/internal/exporter"
	"github.com/slok/slafeed/internal/feed"
	"github.com/slok/slafeed/internal/http/api"
	backendapp "github.com/slok/slafeed/internal/http/backend/app"
	httpbackendmetricsprometheus "github.com/slok/slafeed/internal/http/backend/metrics/prometheus"
	storagewrappers "github.com/slok/slafeed/internal/http/backend/storage/wrappers"
	"github.com/slok/slafeed/internal/log"
	"github.com/slok/slafeed/internal/session"
)

type serverCommand struct {
	statusServer struct {
		address         string
		healthCheckPath string
		metricsPath     string
		pprofPath       string
		hotReloadPath   string
	}
	appServer struct {
		address string
	}

	feed struct {
		refreshInterval       time.Duration
		refreshStaticDatasets bool
	}
}

// NewServerCommand returns the server command.
func NewServerCommand(app *kingpin.Application) Command {
	c := &serverCommand{}
	cmd := app.Command("server", "Starts the SLA feed API server.")
	cmd.Flag("app-listen-address", "Application listen address.").Default(":8080").StringVar(&c.appServer.address)
	cmd.Flag("status-listen-address", "Status (health check, metrics, pprof...) listen address.").Default(":8081").StringVar(&c.statusServer.address)
	cmd.Flag("health-check-path", "Health check path.").Default("/status").StringVar(&c.statusServer.healthCheckPath)
	cmd.Flag("metrics-path", "Prometheus metrics path where metrics will be served.").Default("/metrics").StringVar(&c.statusServer.metricsPath)
	cmd.Flag("pprof-path", "PProf path where debug tool is available.").Default("/debug/pprof").StringVar(&c.statusServer.pprofPath)
	cmd.Flag("hot-reload-path", "The webhook path on the status server for hot-reloading the feed profile.").Default("/-/reload").StringVar(&c.statusServer.hotReloadPath)

	cmd.Flag("refresh-interval", "Forces the session refresh interval, the profile interval is used if missing.").DurationVar(&c.feed.refreshInterval)
	cmd.Flag("refresh-static-datasets", "Regenerates the SLA breaches, failover events and compliance datasets on every refresh too.").BoolVar(&c.feed.refreshStaticDatasets)

	return c
}

func (c serverCommand) Name() string { return "server" }
func (c serverCommand) Run(ctx context.Context, config RootConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := config.Logger.WithValues(log.Kv{"command": c.Name()})
	promReg := prometheus.DefaultRegisterer
	backendMetricsRecorder := httpbackendmetricsprometheus.NewRecorder(promReg)

	profileRepo, err := newProfileRepo(logger, config.ProfilePath)
	if err != nil {
		return err
	}
	profile := feed.DefaultProfile()
	if profileRepo != nil {
		p, err := profileRepo.GetProfile(ctx)
		if err != nil {
			return err
		}
		profile = *p
	}

	gen, err := feed.NewGenerator(feed.GeneratorConfig{Profile: &profile})
	if err != nil {
		return fmt.Errorf("could not create feed generator: %w", err)
	}

	sess, err := session.NewSession(session.SessionConfig{
		Generator:             gen,
		RefreshInterval:       c.feed.refreshInterval,
		RefreshStaticDatasets: c.feed.refreshStaticDatasets,
		MetricsRecorder:       backendMetricsRecorder,
		Logger:                logger,
	})
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}
	snapshotGetter := storagewrappers.NewMeasuredSnapshotGetter(sess, backendMetricsRecorder)

	collector, err := exporter.NewCollector(exporter.CollectorConfig{
		SnapshotGetter: snapshotGetter,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("could not create feed exporter: %w", err)
	}
	err = promReg.Register(collector)
	if err != nil {
		return fmt.Errorf("could not register feed exporter: %w", err)
	}

	// Prepare our run and reload entrypoints.
	var g run.Group
	reloadManager := reload.NewManager()

	// Run hot-reload.
	{
		// Set feed profile reloader.
		reloadManager.Add(1000, reload.ReloaderFunc(func(ctx context.Context, id string) (err error) {
			defer func() { backendMetricsRecorder.MeasureProfileReload(ctx, err) }()

			if profileRepo == nil {
				logger.Warningf("Hot-reload ignored, no feed profile file configured")
				return nil
			}

			err = profileRepo.Reload(ctx)
			if err != nil {
				logger.Errorf("Could not reload feed profile: %s", err)
				return err
			}

			p, err := profileRepo.GetProfile(ctx)
			if err != nil {
				return err
			}

			err = gen.SetProfile(*p)
			if err != nil {
				logger.Errorf("Could not set feed profile: %s", err)
				return err
			}

			logger.WithValues(log.Kv{"reload-id": id}).Infof("Feed profile reloaded")
			return nil
		}))

		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				logger.Infof("Hot-reload manager running")
				defer logger.Infof("Hot-reload manager stopped")
				return reloadManager.Run(ctx)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	// OS signals.
	{
		sigC := make(chan os.Signal, 1)
		reloadC := make(chan struct{})
		exitC := make(chan struct{})
		signal.Notify(sigC, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

		// Add hot-reload notifier for SIGHUP.
		reloadManager.On(reload.NotifierFunc(func(ctx context.Context) (string, error) {
			select {
			case <-reloadC:
			case <-ctx.Done():
				return "", ctx.Err()
			}
			logger.Infof("Hot-reload triggered from OS SIGHUP signal")
			return "sighup", nil
		}))

		g.Add(
			func() error {
				logger.Infof("OS signals listener started")
				defer logger.Infof("OS signals listener stopped")
				for {
					select {
					case s := <-sigC:
						logger.Infof("Signal %s received", s)
						// Don't stop if SIGHUP, only reload.
						if s == syscall.SIGHUP {
							select {
							case reloadC <- struct{}{}:
							case <-exitC:
								return nil
							}
							continue
						}

						return nil
					case <-exitC:
						return nil
					}
				}
			},
			func(_ error) {
				signal.Stop(sigC)
				close(exitC)
			},
		)
	}

	// Session refresh.
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				err := sess.Start(ctx)
				if err != nil {
					return fmt.Errorf("could not start session refresh: %w", err)
				}
				logger.Infof("Session refresh running")
				<-ctx.Done()
				return nil
			},
			func(_ error) {
				cancel()
				sess.Stop()
				logger.Infof("Session refresh stopped")
			},
		)
	}

	// Status and metadata server (health checks, metrics, hot-reload...).
	{
		logger := logger.WithValues(log.Kv{
			"addr":         c.statusServer.address,
			"metrics":      c.statusServer.metricsPath,
			"health-check": c.statusServer.healthCheckPath,
			"pprof":        c.statusServer.pprofPath,
			"hot-reload":   c.statusServer.hotReloadPath,
		})
		mux := http.NewServeMux()

		// Pprof.
		mux.HandleFunc(c.statusServer.pprofPath+"/", pprof.Index)
		mux.HandleFunc(c.statusServer.pprofPath+"/cmdline", pprof.Cmdline)
		mux.HandleFunc(c.statusServer.pprofPath+"/profile", pprof.Profile)
		mux.HandleFunc(c.statusServer.pprofPath+"/symbol", pprof.Symbol)
		mux.HandleFunc(c.statusServer.pprofPath+"/trace", pprof.Trace)

		// Metrics.
		mux.Handle(c.statusServer.metricsPath, promhttp.Handler())

		// Health checks.
		mux.HandleFunc(c.statusServer.healthCheckPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) }))

		// Hot-reload webhook.
		hotReloadC := make(chan struct{})
		reloadManager.On(reload.NotifierFunc(func(ctx context.Context) (string, error) {
			select {
			case <-hotReloadC:
			case <-ctx.Done():
				return "", ctx.Err()
			}
			logger.Infof("Hot-reload triggered from http webhook")
			return "http", nil
		}))
		mux.Handle(c.statusServer.hotReloadPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			select {
			case hotReloadC <- struct{}{}:
				w.WriteHeader(http.StatusAccepted)
			case <-r.Context().Done():
			}
		}))

		server := http.Server{
			Addr:    c.statusServer.address,
			Handler: mux,
		}

		g.Add(
			func() error {
				logger.Infof("HTTP server listening...")
				return server.ListenAndServe()
			},
			func(_ error) {
				logger.Infof("Start draining connections")
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				err := server.Shutdown(ctx)
				if err != nil {
					logger.Errorf("error while shutting down the server: %s", err)
				} else {
					logger.Infof("Server stopped")
				}
			},
		)
	}

	// Application server.
	{
		app, err := backendapp.NewApp(backendapp.AppConfig{
			SnapshotGetter: snapshotGetter,
		})
		if err != nil {
			return fmt.Errorf("could not create app: %w", err)
		}

		apiHandler, err := api.NewAPI(api.APIConfig{
			Logger:       logger,
			DashboardApp: app,
			MetricsRecorder: gohttpmetricsprometheus.NewRecorder(gohttpmetricsprometheus.Config{
				Prefix:   httpbackendmetricsprometheus.Prefix,
				Registry: promReg,
			}),
		})
		if err != nil {
			return fmt.Errorf("could not create api handler: %w", err)
		}

		mux := http.NewServeMux()
		mux.Handle(api.ServePrefix+"/", apiHandler)
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, api.ServePrefix+"/overview", http.StatusSeeOther)
		})) // Root redirect to the overview.

		server := http.Server{
			Addr:    c.appServer.address,
			Handler: mux,
		}

		logger := logger.WithValues(log.Kv{"addr": c.appServer.address})
		g.Add(
			func() error {
				logger.Infof("HTTP server listening...")
				return server.ListenAndServe()
			},
			func(_ error) {
				logger.Infof("Start draining connections")
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				err := server.Shutdown(ctx)
				if err != nil {
					logger.Errorf("error while shutting down the server: %s", err)
				} else {
					logger.Infof("Server stopped")
				}
			},
		)
	}

	err = g.Run()
	if err != nil {
		return err
	}

	return nil
}
