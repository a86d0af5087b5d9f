package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/grapher/pkg/cache"
	"github.com/matzehuels/grapher/pkg/config"
	"github.com/matzehuels/grapher/pkg/layout"
	"github.com/matzehuels/grapher/pkg/layout/graphviz"
	"github.com/matzehuels/grapher/pkg/layout/worker"
)

// shutdownGrace bounds how long running layouts may finish on shutdown.
const shutdownGrace = 10 * time.Second

// workerCommand creates the worker command.
func (c *CLI) workerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the HTTP layout worker",
		Long: `Worker serves the Graphviz layout engine over HTTP for "grapher render --worker".

It is configured from the environment:

  GRAPHER_WORKER_ADDR            listen address (default :8095)
  GRAPHER_WORKER_ENGINE_TIMEOUT  upper bound per layout (default 60s)
  GRAPHER_REDIS_ADDR             Redis layout cache, none when unset
  GRAPHER_REDIS_PASSWORD
  GRAPHER_REDIS_DB
  GRAPHER_CACHE_TTL              layout cache expiry (default 168h)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadWorkerEnv()
			if err != nil {
				return err
			}
			return c.runWorker(cmd.Context(), env)
		},
	}
}

func (c *CLI) runWorker(ctx context.Context, env *config.WorkerEnv) error {
	store := workerCache(ctx, c.Logger, env)
	defer store.Close()

	engine := layout.Cached(graphviz.New(graphviz.WithLogger(c.Logger)), store,
		layout.WithTTL(env.CacheTTL),
		layout.WithCacheLogger(c.Logger),
	)
	server := worker.NewServer(engine,
		worker.WithServerLogger(c.Logger),
		worker.WithEngineTimeout(env.EngineTimeout),
	)

	srv := &http.Server{
		Addr:              env.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Logger.Info("worker listening", "addr", env.Addr, "engine", layout.EngineName(engine), "timeout", env.EngineTimeout)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.Logger.Info("shutting down worker", "running", server.Running())
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// workerCache returns the Redis cache named by env, or a null cache when
// none is configured or it cannot be reached.
func workerCache(ctx context.Context, logger *log.Logger, env *config.WorkerEnv) cache.Cache {
	if env.RedisAddr == "" {
		return cache.NewNullCache()
	}
	store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})
	if err != nil {
		logger.Warn("layout cache disabled", "error", err)
		return cache.NewNullCache()
	}
	logger.Info("layout cache", "redis", env.RedisAddr)
	return store
}
