package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/nekoapi"
)

// Environment variables read when the matching flag is not given.
const (
	envToken     = "NEKO_API_TOKEN"
	envAPIURL    = "NEKO_API_URL"
	envListen    = "NEEKURO_LISTEN"
	envAssets    = "NEEKURO_ASSETS"
	envRateLimit = "NEEKURO_RATE_LIMIT"
	envRedisURL  = "NEEKURO_REDIS_URL"
)

// stringSetting resolves a value as flag, then environment, then def.
func stringSetting(fs *pflag.FlagSet, flag, env, def string) string {
	if fs.Changed(flag) {
		v, _ := fs.GetString(flag)
		return v
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// floatSetting is stringSetting for numbers.
func floatSetting(fs *pflag.FlagSet, flag, env string, def float64) (float64, error) {
	if fs.Changed(flag) {
		return fs.GetFloat64(flag)
	}
	v := os.Getenv(env)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %s value %q", env, v)
	}
	return f, nil
}

// apiFlags are the gif API connection flags.
type apiFlags struct {
	url   string
	token string
}

func (f *apiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "api-url", "", "gif API base URL (env "+envAPIURL+")")
	cmd.Flags().StringVar(&f.token, "token", "", "gif API token (env "+envToken+")")
}

// client builds a gif API client from flags and environment. The token lives
// in a store owned by this client.
func (f *apiFlags) client(cmd *cobra.Command) *nekoapi.Client {
	fs := cmd.Flags()
	return nekoapi.NewClient(
		nekoapi.WithBaseURL(stringSetting(fs, "api-url", envAPIURL, nekoapi.DefaultBaseURL)),
		nekoapi.WithTokenSource(nekoapi.NewTokenStore(stringSetting(fs, "token", envToken, ""))),
	)
}
