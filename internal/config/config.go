package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"poolDetails/internal/chain"
	"poolDetails/internal/details"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL     string
	RPCTimeout time.Duration
	Contract   string
	Method     string
	FromIndex  int
	Limit      int
	Listen     string
	Out        string
	LogLevel   string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLDETAILS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc", chain.DefaultRPCURL)
	v.SetDefault("rpc-timeout", time.Duration(0))
	v.SetDefault("contract", details.DefaultContract)
	v.SetDefault("method", details.DefaultMethod)
	v.SetDefault("from-index", 0)
	v.SetDefault("limit", details.DefaultLimit)
	v.SetDefault("listen", ":8080")
	v.SetDefault("out", "./data/pool_details.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:     strings.TrimSpace(v.GetString("rpc")),
		RPCTimeout: v.GetDuration("rpc-timeout"),
		Contract:   strings.TrimSpace(v.GetString("contract")),
		Method:     strings.TrimSpace(v.GetString("method")),
		FromIndex:  v.GetInt("from-index"),
		Limit:      v.GetInt("limit"),
		Listen:     v.GetString("listen"),
		Out:        v.GetString("out"),
		LogLevel:   v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.Contract == "" {
		return fmt.Errorf("contract is required")
	}
	if c.Method == "" {
		return fmt.Errorf("method is required")
	}
	if c.FromIndex < 0 {
		return fmt.Errorf("from-index must not be negative")
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be greater than zero")
	}
	if c.RPCTimeout < 0 {
		return fmt.Errorf("rpc-timeout must not be negative")
	}
	return nil
}

// ServiceConfig returns the details service settings.
func (c Config) ServiceConfig() details.Config {
	return details.Config{
		Contract:  c.Contract,
		Method:    c.Method,
		FromIndex: c.FromIndex,
		Limit:     c.Limit,
	}
}
