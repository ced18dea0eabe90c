package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// CLI defines the command-line interface structure for Kong. Every flag can
// also be set through a DMSERVER_ prefixed environment variable.
type CLI struct {
	Addr       string  `default:":5000" help:"Listen address"`
	DB         string  `name:"db" default:"${db}" help:"SQLite database path (:memory: keeps no history)"`
	Config     string  `type:"existingfile" help:"YAML file with classifier, loader and server settings"`
	Out        string  `help:"Directory that receives a copy of every generated module"`
	MaxUpload  int     `name:"max-upload" help:"Upload limit in MiB (default 16)"`
	Rate       float64 `help:"Conversions per second allowed per client (default 1)"`
	Burst      int     `help:"Conversions a client may make in a burst (default 5)"`
	TrustProxy bool    `name:"trust-proxy" help:"Take client addresses from X-Forwarded-For and X-Real-IP"`
	LogLevel   string  `default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat  string  `default:"text" enum:"text,json" help:"Log format"`
}

// apply copies flags that were set over the file configuration.
func (c *CLI) apply(cfg *Config) {
	if c.MaxUpload > 0 {
		cfg.Server.MaxUploadMB = c.MaxUpload
	}
	if c.Rate > 0 {
		cfg.Server.Rate = c.Rate
	}
	if c.Burst > 0 {
		cfg.Server.Burst = c.Burst
	}
	if c.TrustProxy {
		cfg.Server.TrustProxy = true
	}
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}
