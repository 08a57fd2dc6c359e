// Package config resolves the server configuration from flags, environment
// variables, an optional .env file and an optional config file.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. GRAPHQL_BASICS_PORT.
const EnvPrefix = "GRAPHQL_BASICS"

// Tracer names accepted by the tracer option.
const (
	TracerNone        = "none"
	TracerOTel        = "otel"
	TracerOpenTracing = "opentracing"
)

// Config holds the configuration for the GraphQL server.
type Config struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	GraphiQL        bool
	LogLevel        string
	LogFormat       string
	MaxDepth        int
	MaxParallelism  int
	Tracer          string
	OTLPEndpoint    string
	Seed            bool
	ShutdownTimeout time.Duration
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BindFlags registers the server flags on fs.
func BindFlags(fs *flag.FlagSet) {
	fs.String("host", "0.0.0.0", "Interface to listen on.")
	fs.Int("port", 4000, "Port to listen on.")
	fs.StringSlice("allowed_origins", []string{"*"}, "Origins allowed by CORS.")
	fs.Bool("graphiql", true, "Serve the GraphiQL page on /.")
	fs.String("log_level", "info", "Log level: debug, info, warn or error.")
	fs.String("log_format", "console", "Log format: json or console.")
	fs.Int("max_depth", 10, "Maximum allowed query depth. 0 disables the check.")
	fs.Int("max_parallelism", 10, "Maximum number of resolvers run in parallel per request.")
	fs.String("tracer", TracerNone, "Query tracer: none, otel or opentracing.")
	fs.String("otlp_endpoint", "", "OTLP/HTTP collector endpoint (host:port) used by the otel tracer.")
	fs.Bool("seed", true, "Start with the demo users, posts and comments.")
	fs.Duration("shutdown_timeout", 10*time.Second, "Time allowed for in-flight requests on shutdown.")
}

// NewViper returns a viper instance reading flags from fs and environment
// variables prefixed with EnvPrefix.
func NewViper(fs *flag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "loading %s", p)
		}
	}
	return nil
}

// ReadFile merges a config file into v. Flags and environment variables
// still take precedence over its values.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	return errors.Wrapf(v.ReadInConfig(), "reading config %s", path)
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		Host:            v.GetString("host"),
		Port:            v.GetInt("port"),
		AllowedOrigins:  splitList(v.GetStringSlice("allowed_origins")),
		GraphiQL:        v.GetBool("graphiql"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		MaxDepth:        v.GetInt("max_depth"),
		MaxParallelism:  v.GetInt("max_parallelism"),
		Tracer:          v.GetString("tracer"),
		OTLPEndpoint:    v.GetString("otlp_endpoint"),
		Seed:            v.GetBool("seed"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port %d out of range", c.Port)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return errors.Errorf("unknown log format %q", c.LogFormat)
	}
	switch c.Tracer {
	case TracerNone, TracerOTel, TracerOpenTracing:
	default:
		return errors.Errorf("unknown tracer %q", c.Tracer)
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.MaxParallelism < 1 {
		return errors.Errorf("max_parallelism must be positive, got %d", c.MaxParallelism)
	}
	return nil
}

// splitList also accepts comma separated values, which is how lists usually
// arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
