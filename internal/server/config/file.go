package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/flagx"
	"github.com/dmitrijs2005/campjournal/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Only
// fields present in the file override the current values.
type FileConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrMetrics          *string         `json:"endpoint_addr_metrics" yaml:"endpoint_addr_metrics"`
	DatabaseDSN                  *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	S3RootUser                   *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3PhotoBucket                *string         `json:"s3_photo_bucket" yaml:"s3_photo_bucket"`
	S3AvatarBucket               *string         `json:"s3_avatar_bucket" yaml:"s3_avatar_bucket"`
	S3Region                     *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	StoragePublicURL             *string         `json:"storage_public_url" yaml:"storage_public_url"`
	PlacesAPIKey                 *string         `json:"places_api_key" yaml:"places_api_key"`
	PlacesBaseURL                *string         `json:"places_base_url" yaml:"places_base_url"`
	CacheSize                    *int            `json:"cache_size" yaml:"cache_size"`
	CacheTTL                     *timex.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	RateLimitInterval            *timex.Duration `json:"rate_limit_interval" yaml:"rate_limit_interval"`
	RateLimitBurst               *int            `json:"rate_limit_burst" yaml:"rate_limit_burst"`
	LogLevel                     *string         `json:"log_level" yaml:"log_level"`
	LogFormat                    *string         `json:"log_format" yaml:"log_format"`
	BackfillInterval             *timex.Duration `json:"backfill_interval" yaml:"backfill_interval"`
}

// parseFile overlays values from the file named by -c/-config. Files ending
// in .yaml or .yml are decoded as YAML, everything else as JSON. A missing
// flag means no file; an unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&c.EndpointAddrMetrics, fc.EndpointAddrMetrics)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	setDuration(&c.AccessTokenValidityDuration, fc.AccessTokenValidityDuration)
	setDuration(&c.RefreshTokenValidityDuration, fc.RefreshTokenValidityDuration)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3PhotoBucket, fc.S3PhotoBucket)
	setString(&c.S3AvatarBucket, fc.S3AvatarBucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.StoragePublicURL, fc.StoragePublicURL)
	setString(&c.PlacesAPIKey, fc.PlacesAPIKey)
	setString(&c.PlacesBaseURL, fc.PlacesBaseURL)
	if fc.CacheSize != nil {
		c.CacheSize = *fc.CacheSize
	}
	setDuration(&c.CacheTTL, fc.CacheTTL)
	setDuration(&c.RateLimitInterval, fc.RateLimitInterval)
	if fc.RateLimitBurst != nil {
		c.RateLimitBurst = *fc.RateLimitBurst
	}
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	setDuration(&c.BackfillInterval, fc.BackfillInterval)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
