// Package clientconfig manages configuration parameters of the command line
// client. Environment variables override defaults and flags override both.
package clientconfig

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"huffpress/internal/addr"
)

// ClientConfig holds all configuration settings for the client.
type ClientConfig struct {
	// Addr is the HTTP server address.
	Addr addr.Addr `env:"ADDRESS" envDefault:"localhost:8080"`

	// GRPCAddr switches the client to gRPC when set.
	GRPCAddr string `env:"GRPC_ADDRESS"`

	// Percentage is sent with compress requests; empty uses the server default.
	Percentage string `env:"PERCENTAGE"`

	// OutputDir receives downloaded results.
	OutputDir string `env:"OUTPUT_DIR" envDefault:"."`

	// Key is the HMAC-SHA256 secret for request and response signatures.
	Key string `env:"KEY"`

	// Retries is the number of attempts per request.
	Retries int `env:"RETRIES" envDefault:"3"`

	// Decompress uploads to /decompress instead of /compress.
	Decompress bool

	// Files are the positional arguments.
	Files []string
}

// ParseFlags reads the environment and the process arguments.
func ParseFlags() (ClientConfig, error) {
	return Parse(os.Args[1:])
}

// Parse reads the environment, then applies args.
func Parse(args []string) (ClientConfig, error) {
	cfg, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("huffpress-client", flag.ContinueOnError)
	fs.Var(&cfg.Addr, "a", "Server host and port")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC server host and port")
	fs.StringVar(&cfg.Percentage, "p", cfg.Percentage, "Compression percentage (10-90)")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Directory for downloaded results")
	fs.StringVar(&cfg.Key, "k", cfg.Key, "HMAC signature key")
	fs.IntVar(&cfg.Retries, "r", cfg.Retries, "Attempts per request")
	fs.BoolVar(&cfg.Decompress, "d", false, "Decompress the given artifacts")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Files = fs.Args()
	if len(cfg.Files) == 0 {
		return cfg, fmt.Errorf("no input files")
	}
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	return cfg, nil
}
