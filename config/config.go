package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
	"github.com/rohanthewiz/serr"
	"gopkg.in/yaml.v3"

	"solrview/models"
	"solrview/searchview"
)

// EnvConfigPath names the variable that points at the YAML file
const EnvConfigPath = "SOLRVIEW_CONFIG"

// DefaultConfigFile is read from the working directory when present
const DefaultConfigFile = "solrview.yaml"

// BackendConfig locates the search service the view queries
type BackendConfig struct {
	Origin  string        `yaml:"origin"`
	Timeout time.Duration `yaml:"timeout"` // 0 = no deadline
}

// WebConfig drives `solrview serve`
type WebConfig struct {
	Address    string        `yaml:"address"`
	Verbose    bool          `yaml:"verbose"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	RateLimit  int           `yaml:"rate_limit"` // requests per minute per client, 0 = off
}

// ProxyConfig drives `solrview proxy`
type ProxyConfig struct {
	Address string        `yaml:"address"`
	SolrURL string        `yaml:"solr_url"`
	Rows    int           `yaml:"rows"`
	QueryOp string        `yaml:"q_op"`
	Timeout time.Duration `yaml:"timeout"`
}

// DiagnosticsConfig locates the failure journal; an empty path keeps it in memory
type DiagnosticsConfig struct {
	DBPath string `yaml:"db_path"`
}

// MetricsConfig sets the Prometheus listener port; 0 disables it
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// Config is the root of solrview.yaml
type Config struct {
	LogLevel      string            `yaml:"log_level"`
	Variant       string            `yaml:"variant"`
	Sequencing    string            `yaml:"sequencing"`
	ClearOnEmpty  *bool             `yaml:"clear_on_empty"`
	AuthorOptions []string          `yaml:"author_options"`
	Backend       BackendConfig     `yaml:"backend"`
	Web           WebConfig         `yaml:"web"`
	Proxy         ProxyConfig       `yaml:"proxy"`
	Diagnostics   DiagnosticsConfig `yaml:"diagnostics"`
	Metrics       MetricsConfig     `yaml:"metrics"`
}

// envOverrides are read with go-env; empty values leave the file setting alone
type envOverrides struct {
	LogLevel       string `env:"SOLRVIEW_LOG_LEVEL"`
	Variant        string `env:"SOLRVIEW_VARIANT"`
	Sequencing     string `env:"SOLRVIEW_SEQUENCING"`
	ClearOnEmpty   string `env:"SOLRVIEW_CLEAR_ON_EMPTY"`
	AuthorOptions  string `env:"SOLRVIEW_AUTHOR_OPTIONS"` // pipe separated
	BackendOrigin  string `env:"SOLRVIEW_BACKEND_ORIGIN"`
	BackendTimeout string `env:"SOLRVIEW_BACKEND_TIMEOUT"`
	WebAddress     string `env:"SOLRVIEW_WEB_ADDRESS"`
	SessionTTL     string `env:"SOLRVIEW_SESSION_TTL"`
	RateLimit      string `env:"SOLRVIEW_RATE_LIMIT"`
	ProxyAddress   string `env:"SOLRVIEW_PROXY_ADDRESS"`
	SolrURL        string `env:"SOLRVIEW_SOLR_URL"`
	DiagnosticsDB  string `env:"SOLRVIEW_DIAGNOSTICS_DB"`
	MetricsPort    string `env:"SOLRVIEW_METRICS_PORT"`
}

// Default mirrors the original deployment: the proxy on :5000 in front of
// the jcg1 core, the page on :8000.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		Variant:    string(models.VariantClassic),
		Sequencing: string(searchview.SequencingLatest),
		Backend: BackendConfig{
			Origin: "http://localhost:5000",
		},
		Web: WebConfig{
			Address:    ":8000",
			SessionTTL: searchview.DefaultSessionTTL,
			RateLimit:  600,
		},
		Proxy: ProxyConfig{
			Address: ":5000",
			SolrURL: "http://localhost:8983/solr/jcg1",
			Rows:    10,
			QueryOp: "OR",
		},
	}
}

// Load builds the config from defaults, the YAML file, .env and SOLRVIEW_* variables, in that order.
// path may be empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, serr.Wrap(err, "failed to load .env")
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, serr.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return serr.Wrap(err, "failed to read config file "+path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return serr.Wrap(err, "failed to parse config file "+path)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return serr.Wrap(err, "failed to parse environment variables")
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&c.LogLevel, o.LogLevel)
	setString(&c.Variant, o.Variant)
	setString(&c.Sequencing, o.Sequencing)
	setString(&c.Backend.Origin, o.BackendOrigin)
	setString(&c.Web.Address, o.WebAddress)
	setString(&c.Proxy.Address, o.ProxyAddress)
	setString(&c.Proxy.SolrURL, o.SolrURL)
	setString(&c.Diagnostics.DBPath, o.DiagnosticsDB)

	if o.ClearOnEmpty != "" {
		b, err := strconv.ParseBool(o.ClearOnEmpty)
		if err != nil {
			return serr.Wrap(err, "invalid SOLRVIEW_CLEAR_ON_EMPTY")
		}
		c.ClearOnEmpty = &b
	}
	if o.AuthorOptions != "" {
		c.AuthorOptions = splitList(o.AuthorOptions, "|")
	}
	if o.BackendTimeout != "" {
		d, err := time.ParseDuration(o.BackendTimeout)
		if err != nil {
			return serr.Wrap(err, "invalid SOLRVIEW_BACKEND_TIMEOUT")
		}
		c.Backend.Timeout = d
	}
	if o.SessionTTL != "" {
		d, err := time.ParseDuration(o.SessionTTL)
		if err != nil {
			return serr.Wrap(err, "invalid SOLRVIEW_SESSION_TTL")
		}
		c.Web.SessionTTL = d
	}
	if o.RateLimit != "" {
		n, err := strconv.Atoi(o.RateLimit)
		if err != nil {
			return serr.Wrap(err, "invalid SOLRVIEW_RATE_LIMIT")
		}
		c.Web.RateLimit = n
	}
	if o.MetricsPort != "" {
		n, err := strconv.Atoi(o.MetricsPort)
		if err != nil {
			return serr.Wrap(err, "invalid SOLRVIEW_METRICS_PORT")
		}
		c.Metrics.Port = n
	}
	return nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return serr.New("log_level must be debug, info, warn or error")
	}
	if _, err := models.ParseVariant(c.Variant); err != nil {
		return err
	}
	if _, err := searchview.ParseSequencing(c.Sequencing); err != nil {
		return err
	}
	if err := validateHTTPURL("backend.origin", c.Backend.Origin); err != nil {
		return err
	}
	if c.Backend.Timeout < 0 {
		return serr.New("backend.timeout must not be negative")
	}
	if c.Web.Address == "" {
		return serr.New("web.address is required")
	}
	if c.Web.SessionTTL <= 0 {
		return serr.New("web.session_ttl must be positive")
	}
	if c.Web.RateLimit < 0 {
		return serr.New("web.rate_limit must not be negative")
	}
	if err := validateHTTPURL("proxy.solr_url", c.Proxy.SolrURL); err != nil {
		return err
	}
	if c.Proxy.Rows <= 0 {
		return serr.New("proxy.rows must be positive")
	}
	switch strings.ToUpper(c.Proxy.QueryOp) {
	case "AND", "OR":
	default:
		return serr.New("proxy.q_op must be AND or OR")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return serr.New(fmt.Sprintf("metrics.port %d out of range", c.Metrics.Port))
	}
	return nil
}

// ViewOptions translates the config into searchview options
func (c *Config) ViewOptions(diag searchview.Diagnostics) (searchview.Options, error) {
	variant, err := models.ParseVariant(c.Variant)
	if err != nil {
		return searchview.Options{}, err
	}
	seq, err := searchview.ParseSequencing(c.Sequencing)
	if err != nil {
		return searchview.Options{}, err
	}
	return searchview.Options{
		Variant:       variant,
		Sequencing:    seq,
		ClearOnEmpty:  c.ClearOnEmpty,
		AuthorOptions: c.AuthorOptions,
		Diagnostics:   diag,
	}, nil
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return serr.New(name + " is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return serr.Wrap(err, "invalid "+name)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return serr.New(name + " must use http or https")
	}
	if u.Host == "" {
		return serr.New(name + " must include a host")
	}
	return nil
}

func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
