package config

import "github.com/spf13/viper"

type Config struct {
	S3      *S3Config      `mapstructure:"s3" yaml:"s3,omitempty"`
	Archive *ArchiveConfig `mapstructure:"archive" yaml:"archive,omitempty"`
}

type S3Config struct {
	Endpoint  string     `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region    string     `mapstructure:"region" yaml:"region,omitempty"`
	AccessKey string     `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string     `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Bucket    string     `mapstructure:"bucket" yaml:"bucket"`
	TLS       *TLSConfig `mapstructure:"tls" yaml:"tls,omitempty"`
}

type TLSConfig struct {
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
}

// ArchiveConfig holds defaults for the archive command; flags override them.
type ArchiveConfig struct {
	Compression   string `mapstructure:"compression" yaml:"compression,omitempty"`
	ChunkSizeMB   int64  `mapstructure:"chunk_size_mb" yaml:"chunk_size_mb,omitempty"`
	StripPrefix   *bool  `mapstructure:"strip_prefix" yaml:"strip_prefix,omitempty"`
	OutputPattern string `mapstructure:"output_pattern" yaml:"output_pattern,omitempty"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// StripPrefixOrDefault returns the configured strip_prefix, defaulting to
// true as listed keys almost always share the queried prefix.
func (a *ArchiveConfig) StripPrefixOrDefault() bool {
	if a == nil || a.StripPrefix == nil {
		return true
	}
	return *a.StripPrefix
}
