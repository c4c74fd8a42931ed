// Package serverconfig manages configuration parameters for the compression
// server. It supports command-line flags, environment variables and a JSON or
// YAML config file. Priority: Flags > Env > Config File > Defaults.
package serverconfig

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"huffpress/internal/addr"
)

// ServerConfigs holds all configuration settings for the server.
type ServerConfigs struct {
	// Addr is the HTTP listen address (host:port).
	Addr addr.Addr `env:"ADDRESS"`

	// GRPCAddr is the gRPC listen address; empty disables the gRPC server.
	GRPCAddr string `env:"GRPC_ADDRESS"`

	// DefaultPercentage applies when a request carries no percentage.
	DefaultPercentage int `env:"DEFAULT_PERCENTAGE"`

	// LosslessCodec is the transform for PDFs: deflate, zstd, brotli, lz4,
	// snappy or auto.
	LosslessCodec string `env:"LOSSLESS_CODEC"`

	// StorageDir holds artifacts and the job history; empty keeps both in memory.
	StorageDir string `env:"STORAGE_DIR"`

	// StoreInter is the job history flush interval in seconds; 0 writes through.
	StoreInter int `env:"STORE_INTERVAL"`

	// CacheSize is the number of artifacts kept in the read cache.
	CacheSize int `env:"CACHE_SIZE"`

	// MaxUploadSize limits uploads in bytes; 0 derives it from host memory.
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`

	// DatabaseDSN moves the job history into PostgreSQL when set.
	DatabaseDSN string `env:"DATABASE_DSN"`

	// Key is the HMAC-SHA256 secret for request and response signatures.
	Key string `env:"KEY"`

	// TrustedSubnet restricts clients by X-Real-IP (CIDR).
	TrustedSubnet string `env:"TRUSTED_SUBNET"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL"`

	// ConfigPath is the path to the JSON or YAML configuration file.
	ConfigPath string `env:"CONFIG"`
}

// fileConfig maps the config file. Zero values mean "not set".
type fileConfig struct {
	Address           string `json:"address" yaml:"address"`
	GRPCAddress       string `json:"grpc_address" yaml:"grpc_address"`
	DefaultPercentage int    `json:"default_percentage" yaml:"default_percentage"`
	LosslessCodec     string `json:"lossless_codec" yaml:"lossless_codec"`
	StorageDir        string `json:"storage_dir" yaml:"storage_dir"`
	StoreInterval     int    `json:"store_interval" yaml:"store_interval"`
	CacheSize         int    `json:"cache_size" yaml:"cache_size"`
	MaxUploadSize     int64  `json:"max_upload_size" yaml:"max_upload_size"`
	DatabaseDSN       string `json:"database_dsn" yaml:"database_dsn"`
	TrustedSubnet     string `json:"trusted_subnet" yaml:"trusted_subnet"`
	LogLevel          string `json:"log_level" yaml:"log_level"`
}

// GetAddr returns the HTTP listen address.
func (o *ServerConfigs) GetAddr() string {
	return o.Addr.GetAddr()
}

// InitialFlags returns the defaults.
func InitialFlags() ServerConfigs {
	return ServerConfigs{
		Addr:              addr.Addr{Host: "localhost", Port: 8080},
		DefaultPercentage: 50,
		LosslessCodec:     "deflate",
		StorageDir:        "compressed",
		CacheSize:         64,
		LogLevel:          "info",
	}
}

// ParseFlags reads the process arguments and environment.
func (o *ServerConfigs) ParseFlags() error {
	return o.Parse(os.Args[1:])
}

// Parse applies the config file, the environment and then args on top of
// the current values. Flags are parsed twice: first to find the config file,
// then again so that they win over everything else.
func (o *ServerConfigs) Parse(args []string) error {
	if err := o.flagSet().Parse(args); err != nil {
		return err
	}

	path := o.ConfigPath
	if path == "" {
		path = os.Getenv("CONFIG")
	}
	if path != "" {
		if err := o.loadConfigFile(path); err != nil {
			return err
		}
	}

	if err := env.Parse(o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return o.flagSet().Parse(args)
}

func (o *ServerConfigs) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("huffpress-server", flag.ContinueOnError)
	fs.Var(&o.Addr, "a", "HTTP host and port")
	fs.StringVar(&o.GRPCAddr, "g", o.GRPCAddr, "gRPC host and port, empty disables gRPC")
	fs.IntVar(&o.DefaultPercentage, "p", o.DefaultPercentage, "Default compression percentage")
	fs.StringVar(&o.LosslessCodec, "l", o.LosslessCodec, "Lossless codec for PDFs (deflate, zstd, brotli, lz4, snappy, auto)")
	fs.StringVar(&o.StorageDir, "s", o.StorageDir, "Storage directory, empty keeps files in memory")
	fs.IntVar(&o.StoreInter, "i", o.StoreInter, "Job history flush interval in seconds")
	fs.IntVar(&o.CacheSize, "cache", o.CacheSize, "Artifact cache size")
	fs.Int64Var(&o.MaxUploadSize, "m", o.MaxUploadSize, "Max upload size in bytes, 0 derives it from memory")
	fs.StringVar(&o.DatabaseDSN, "d", o.DatabaseDSN, "DB connection string")
	fs.StringVar(&o.Key, "k", o.Key, "HMAC signature key")
	fs.StringVar(&o.TrustedSubnet, "t", o.TrustedSubnet, "Trusted subnet (CIDR)")
	fs.StringVar(&o.LogLevel, "log", o.LogLevel, "Log level")
	fs.StringVar(&o.ConfigPath, "c", o.ConfigPath, "Path to configuration file")
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "Path to configuration file")
	return fs
}

func (o *ServerConfigs) loadConfigFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fCfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &fCfg)
	default:
		err = json.Unmarshal(raw, &fCfg)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	if fCfg.Address != "" {
		if err := o.Addr.Set(fCfg.Address); err != nil {
			return fmt.Errorf("config file address %q: %w", fCfg.Address, err)
		}
	}
	setString(&o.GRPCAddr, fCfg.GRPCAddress)
	setString(&o.LosslessCodec, fCfg.LosslessCodec)
	setString(&o.StorageDir, fCfg.StorageDir)
	setString(&o.DatabaseDSN, fCfg.DatabaseDSN)
	setString(&o.TrustedSubnet, fCfg.TrustedSubnet)
	setString(&o.LogLevel, fCfg.LogLevel)
	if fCfg.DefaultPercentage != 0 {
		o.DefaultPercentage = fCfg.DefaultPercentage
	}
	if fCfg.StoreInterval != 0 {
		o.StoreInter = fCfg.StoreInterval
	}
	if fCfg.CacheSize != 0 {
		o.CacheSize = fCfg.CacheSize
	}
	if fCfg.MaxUploadSize != 0 {
		o.MaxUploadSize = fCfg.MaxUploadSize
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
