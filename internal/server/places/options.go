package places

import (
	"net/http"
	"net/url"
	"time"
)

type Options struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	APIKey     string
}

type OptionFunc func(opts *Options)

func WithBaseURL(baseURL *url.URL) OptionFunc {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) OptionFunc {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

func WithAPIKey(key string) OptionFunc {
	return func(opts *Options) {
		opts.APIKey = key
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		BaseURL: &url.URL{
			Scheme: "https",
			Host:   "maps.googleapis.com",
			Path:   "/maps/api/place",
		},
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}
