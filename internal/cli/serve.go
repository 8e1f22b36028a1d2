package cli

import (
	"context"
	"net/url"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cacaonk0027/neekuro/internal/metrics"
	"github.com/cacaonk0027/neekuro/internal/server"
	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/nekoapi"
	"github.com/cacaonk0027/neekuro/pkg/welcome"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		api       apiFlags
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve welcome cards and gif lookups over HTTP",
		Long: `Start the HTTP server.

Routes:
  GET  /healthz
  GET  /metrics
  POST /v1/welcome                  JSON card in, image out
  GET  /v1/gifs
  GET  /v1/gifs/{category}/{name}

Cards posted to /v1/welcome may reference images by URL or base64 data only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, assets, err := serveSettings(cmd.Flags())
			if err != nil {
				return err
			}

			opts := []server.Option{
				server.WithBuilderOptions(welcome.WithAssetsRoot(assets)),
			}
			if redisURL := stringSetting(cmd.Flags(), "redis-url", envRedisURL, ""); redisURL != "" {
				rdb, err := connectRedis(cmd.Context(), redisURL)
				if err != nil {
					return err
				}
				defer rdb.Close()
				c.Logger.Info("Sharing the rate limit through Redis", "addr", rdb.Options().Addr)
				opts = append(opts, server.WithRedisLimiter(rdb))
			}
			client := api.client(cmd)
			if !noMetrics {
				m := metrics.New(apiHost(client))
				m.Register()
				opts = append(opts, server.WithMetrics(m))
			}

			srv := server.New(cfg, client, c.Logger, opts...)
			printInfo(cmd.OutOrStdout(), "Serving on %s", StyleLink.Render(srv.Addr()))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	fs := cmd.Flags()
	api.register(cmd)
	fs.String("listen", "", "listen address (env "+envListen+", default "+server.DefaultAddr+")")
	fs.Float64("rate-limit", 0, "requests per second per client IP, negative to disable (env "+envRateLimit+")")
	fs.Int("burst", 0, "rate limit burst (default twice the rate)")
	fs.String("assets", "", "directory font paths are resolved against (env "+envAssets+")")
	fs.String("redis-url", "", "Redis URL for a rate limit shared between instances (env "+envRedisURL+")")
	fs.BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}

// apiHost is the host outgoing gif API requests are labelled with.
func apiHost(client *nekoapi.Client) string {
	u, err := url.Parse(client.BaseURL())
	if err != nil {
		return ""
	}
	return u.Host
}

// connectRedis opens and pings a Redis client.
func connectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid Redis URL")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "cannot reach Redis at %s", opts.Addr)
	}
	return rdb, nil
}

// serveSettings resolves the server config from flags and environment.
func serveSettings(fs *pflag.FlagSet) (server.Config, string, error) {
	rate, err := floatSetting(fs, "rate-limit", envRateLimit, server.DefaultRateLimit)
	if err != nil {
		return server.Config{}, "", err
	}
	burst, _ := fs.GetInt("burst")
	cfg := server.Config{
		Addr:      stringSetting(fs, "listen", envListen, server.DefaultAddr),
		RateLimit: rate,
		Burst:     burst,
	}
	return cfg, stringSetting(fs, "assets", envAssets, "."), nil
}
