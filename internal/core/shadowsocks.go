package core

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
)

// Shadowsocks supervises an sslocal-style auxiliary core. Its config is an
// argument string split into argv on run.
type Shadowsocks struct {
	proc    process
	logger  *slog.Logger
	config  string
	name    string
	version string
}

// NewShadowsocks probes the binary (`--version`).
func NewShadowsocks(path string, logger *slog.Logger) (*Shadowsocks, error) {
	name, version, err := probeVersion(path, "--version")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Shadowsocks{
		proc:    process{path: path},
		logger:  logger,
		name:    name,
		version: version,
	}, nil
}

func (c *Shadowsocks) Name() string    { return c.name }
func (c *Shadowsocks) Version() string { return c.version }

func (c *Shadowsocks) Run() error {
	return c.proc.start(splitArgs(c.config), "")
}

func (c *Shadowsocks) Stop() error     { return c.proc.stop() }
func (c *Shadowsocks) Restart() error  { return restart(c) }
func (c *Shadowsocks) IsRunning() bool { return c.proc.isRunning() }

func (c *Shadowsocks) SetConfig(config string) error {
	c.config = config
	return nil
}

func (c *Shadowsocks) Config() string { return c.config }

func (c *Shadowsocks) SetConfigByNode(node *repository.NodeData, inbounds config.Inbounds) error {
	content, err := c.generateConfig(node, inbounds)
	if err != nil {
		return err
	}
	return c.SetConfig(content)
}

func (c *Shadowsocks) TakeStdout() io.ReadCloser { return c.proc.takeStdout() }
func (c *Shadowsocks) Close() error              { return c.proc.close() }

func (c *Shadowsocks) generateConfig(node *repository.NodeData, inbounds config.Inbounds) (string, error) {
	if inbounds.HTTP != nil && inbounds.HTTP.Enable {
		c.logger.Warn("shadowsocks core has no http inbound support")
	}
	socks := inbounds.SOCKS5
	if socks == nil {
		return "", fmt.Errorf("socks inbound not found")
	}

	var b strings.Builder
	fmt.Fprintf(&b, " --local-addr %s:%d", socks.Listen, socks.Port)

	scheme, _, _ := strings.Cut(node.URL, "://")
	switch scheme {
	case "ss":
		fmt.Fprintf(&b, " --server-url %s", node.URL)
	case "":
		if err := appendShadowsocksServer(&b, node.Raw); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("protocol error: %s", scheme)
	}

	return b.String(), nil
}

// appendShadowsocksServer extracts the first server of a keyed
// shadowsocks outbound blob into command-line arguments.
func appendShadowsocksServer(b *strings.Builder, raw string) error {
	var outbound struct {
		Protocol string `json:"protocol"`
		Settings struct {
			Shadowsocks struct {
				Servers []struct {
					Address  string `json:"address"`
					Port     uint32 `json:"port"`
					Method   string `json:"method"`
					Password string `json:"password"`
				} `json:"servers"`
			} `json:"shadowsocks"`
		} `json:"settings"`
	}
	if err := json.Unmarshal([]byte(raw), &outbound); err != nil {
		return fmt.Errorf("parse outbound: %w", err)
	}
	if len(outbound.Settings.Shadowsocks.Servers) == 0 {
		return fmt.Errorf("no shadowsocks servers")
	}

	server := outbound.Settings.Shadowsocks.Servers[0]
	if server.Address == "" || server.Port == 0 || server.Method == "" {
		return fmt.Errorf("incomplete shadowsocks server")
	}
	fmt.Fprintf(b, " --server-addr %s:%d --encrypt-method %s --password %s",
		server.Address, server.Port, server.Method, server.Password)
	return nil
}
