package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"question-bank/internal/app"
	"question-bank/internal/config"
	"question-bank/internal/domain"
	"question-bank/internal/infra/httpsource"
	"question-bank/internal/infra/memory"
	pgsource "question-bank/internal/infra/postgres"
	rediscache "question-bank/internal/infra/redis"
	transport "question-bank/internal/transport/http"
)

// collectionCache is satisfied by the in-memory and Redis caches.
type collectionCache interface {
	Wrap(src app.Source) app.Source
}

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the question bank server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var cache collectionCache
	if redisClient != nil {
		cache = rediscache.NewCollectionCache(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		cache = memory.NewCollectionCache(config.TTLDuration(cfg.Examples.TTL, 10*time.Minute))
	}

	var defaults domain.ConfigPatch
	if cfg.View.NumQuestions > 0 {
		defaults.NumQuestions = &cfg.View.NumQuestions
	}
	wsHandler := transport.NewWSHandler(sourceResolver(cfg, finalPort, pool, cache), defaults)
	router := transport.NewRouter(wsHandler, transport.NewExamplesHandler(cfg.Examples.Dir))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting question bank on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sourceResolver builds the sources a session may load: the example resource
// (optionally a named file of the examples directory) and, with Postgres
// configured, stored collections. Every source is served through cache.
func sourceResolver(cfg config.Config, port string, pool *pgxpool.Pool, cache collectionCache) transport.SourceResolver {
	return func(kind, name string) (app.Source, error) {
		switch kind {
		case "example":
			target := cfg.ExampleURL(port)
			if name != "" {
				target = "http://localhost:" + port + "/examples/" + url.PathEscape(name)
			}
			return cache.Wrap(httpsource.NewSource(exampleSourceName(name), target, nil)), nil
		case "collection":
			if pool == nil {
				return nil, fmt.Errorf("%w: postgres not configured", transport.ErrUnknownSource)
			}
			if name == "" {
				return nil, fmt.Errorf("%w: collection name required", domain.ErrValidation)
			}
			return cache.Wrap(pgsource.NewCollectionSource(pool, name)), nil
		}
		return nil, fmt.Errorf("%w: %q", transport.ErrUnknownSource, kind)
	}
}

func exampleSourceName(name string) string {
	if name == "" {
		return httpsource.ExampleName
	}
	return httpsource.ExampleName + "-" + name
}
