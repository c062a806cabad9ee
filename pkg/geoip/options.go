package geoip

import (
	"log"
	"net/http"
	"os"
)

// OrgPrefillMode selects where the company name comes from on a fresh lookup.
type OrgPrefillMode string

const (
	// OrgPrefillCached fills the company name from the cached record on a
	// cache hit only. A fresh lookup leaves the company field untouched.
	OrgPrefillCached OrgPrefillMode = "cached"
	// OrgPrefillResponse patches the company name from the freshly fetched
	// org field as well.
	OrgPrefillResponse OrgPrefillMode = "response"
)

const (
	// DefaultEndpoint is the fixed geolocation-lookup endpoint.
	DefaultEndpoint = "https://ipapi.co/json/"
	// DefaultCacheKey is the store key holding the last successful lookup
	// body verbatim.
	DefaultCacheKey = "geoIpInfo"
	// DefaultSentinel marks the location fields as unknown after a failed
	// lookup, distinct from an empty string.
	DefaultSentinel = "N/A"
)

type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	Store      Store
	CacheKey   string
	Sentinel   string
	OrgPrefill OrgPrefillMode
	Logger     *log.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Endpoint:   DefaultEndpoint,
		HTTPClient: http.DefaultClient,
		Store:      NewMemoryStore(),
		CacheKey:   DefaultCacheKey,
		Sentinel:   DefaultSentinel,
		OrgPrefill: OrgPrefillCached,
		Logger:     log.New(os.Stderr, "geoip: ", log.LstdFlags),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.CacheKey == "" {
		opts.CacheKey = DefaultCacheKey
	}
	if opts.Sentinel == "" {
		opts.Sentinel = DefaultSentinel
	}
	if opts.OrgPrefill == "" {
		opts.OrgPrefill = OrgPrefillCached
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr, "geoip: ", log.LstdFlags)
	}
	return opts
}

func WithEndpoint(url string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Endpoint = url
	}
}

func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HTTPClient = client
	}
}

func WithStore(store Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = store
	}
}

func WithCacheKey(key string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CacheKey = key
	}
}

func WithSentinel(value string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Sentinel = value
	}
}

func WithOrgPrefill(mode OrgPrefillMode) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OrgPrefill = mode
	}
}

func WithLogger(logger *log.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
