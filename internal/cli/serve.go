package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/internal/api"
	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

type serveOpts struct {
	addr     string
	redisURL string
	prefix   string
	entries  int
	maxWords int
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: api.DefaultAddr, entries: cache.DefaultMemoryEntries, prefix: appName + ":"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Layouts and rendered images are kept in an in-process LRU by default. With
--redis they are stored in Redis instead, so several instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL (redis://host:6379/0) for shared storage")
	cmd.Flags().StringVar(&opts.prefix, "redis-prefix", opts.prefix, "key prefix in Redis")
	cmd.Flags().IntVar(&opts.entries, "cache-entries", opts.entries, "in-memory cache size")
	cmd.Flags().IntVar(&opts.maxWords, "max-request-words", api.DefaultMaxWords, "maximum entries per layout request")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	store, err := c.newServeCache(ctx, opts)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "artifacts:"), c.Logger)
	srv, err := api.New(api.Config{
		Runner:   runner,
		Store:    store,
		MaxWords: opts.maxWords,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	printInfo("Listening on %s", StyleHighlight.Render(opts.addr))
	return srv.ListenAndServe(ctx, opts.addr)
}

func (c *CLI) newServeCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.redisURL == "" {
		return cache.NewMemoryCache(opts.entries)
	}
	store, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: opts.redisURL, Prefix: opts.prefix})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	c.Logger.Info("using redis", "prefix", opts.prefix)
	return store, nil
}
