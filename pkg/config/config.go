package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-estimate/pkg/form"
	"github.com/goliatone/go-estimate/pkg/geoip"
)

// Config captures the file-level settings for the estimate form: currency and
// locale, geolocation prefill, theming, and the HTTP server.
type Config struct {
	Currency string       `json:"currency" yaml:"currency"`
	Locale   string       `json:"locale" yaml:"locale"`
	Geo      GeoConfig    `json:"geo" yaml:"geo"`
	Theme    ThemeConfig  `json:"theme" yaml:"theme"`
	Server   ServerConfig `json:"server" yaml:"server"`
}

type GeoConfig struct {
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	CachePath  string `json:"cachePath" yaml:"cachePath"`
	CacheKey   string `json:"cacheKey" yaml:"cacheKey"`
	Sentinel   string `json:"sentinel" yaml:"sentinel"`
	OrgPrefill string `json:"orgPrefill" yaml:"orgPrefill"`
}

type ThemeConfig struct {
	Name    string            `json:"name" yaml:"name"`
	Variant string            `json:"variant" yaml:"variant"`
	Tokens  map[string]string `json:"tokens" yaml:"tokens"`
}

type ServerConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	BasePath string `json:"basePath" yaml:"basePath"`
}

// Default returns the configuration used when no file overrides apply.
func Default() Config {
	return Config{
		Currency: "USD",
		Locale:   "en-US",
		Geo: GeoConfig{
			Endpoint:   geoip.DefaultEndpoint,
			CacheKey:   geoip.DefaultCacheKey,
			Sentinel:   geoip.DefaultSentinel,
			OrgPrefill: "cached",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads and parses the configuration file at path. Settings absent from
// the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes JSON or YAML configuration content on top of the defaults.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}

	cfg = Default()
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}

	return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

// CurrencyUnit parses the configured ISO currency code.
func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("config: invalid currency %q: %w", c.Currency, err)
	}
	return unit, nil
}

// LanguageTag parses the configured locale.
func (c Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Tag{}, fmt.Errorf("config: invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// FormOptions builds the form options implied by the currency and locale
// settings.
func (c Config) FormOptions() ([]form.Option, error) {
	unit, err := c.CurrencyUnit()
	if err != nil {
		return nil, err
	}
	tag, err := c.LanguageTag()
	if err != nil {
		return nil, err
	}
	return []form.Option{form.WithCurrency(unit, tag)}, nil
}

// GeoClient builds a geolocation client from the geo settings. A cache path
// selects a file-backed store, otherwise lookups are cached in memory.
func (c Config) GeoClient(fns ...geoip.OptionFn) (*geoip.Client, error) {
	var store geoip.Store
	if c.Geo.CachePath != "" {
		fileStore, err := geoip.NewFileStore(c.Geo.CachePath)
		if err != nil {
			return nil, fmt.Errorf("config: geo cache store: %w", err)
		}
		store = fileStore
	} else {
		store = geoip.NewMemoryStore()
	}

	mode := geoip.OrgPrefillCached
	if strings.EqualFold(c.Geo.OrgPrefill, "response") {
		mode = geoip.OrgPrefillResponse
	}

	options := []geoip.OptionFn{
		geoip.WithEndpoint(c.Geo.Endpoint),
		geoip.WithStore(store),
		geoip.WithCacheKey(c.Geo.CacheKey),
		geoip.WithSentinel(c.Geo.Sentinel),
		geoip.WithOrgPrefill(mode),
	}
	options = append(options, fns...)
	return geoip.New(options...), nil
}

// RendererTheme converts the theme settings into a renderer configuration.
// Tokens become CSS custom properties; names already carrying the "--" prefix
// are kept as-is. Returns nil when no theme is configured.
func (c Config) RendererTheme() *theme.RendererConfig {
	if c.Theme.Name == "" && len(c.Theme.Tokens) == 0 {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:   c.Theme.Name,
		Variant: c.Theme.Variant,
	}
	if len(c.Theme.Tokens) > 0 {
		cfg.Tokens = make(map[string]string, len(c.Theme.Tokens))
		cfg.CSSVars = make(map[string]string, len(c.Theme.Tokens))
		for name, value := range c.Theme.Tokens {
			cfg.Tokens[name] = value
			varName := name
			if !strings.HasPrefix(varName, "--") {
				varName = "--" + varName
			}
			cfg.CSSVars[varName] = value
		}
	}
	return cfg
}
