package core

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
)

// NaiveProxy supervises a naive auxiliary core.
type NaiveProxy struct {
	proc    process
	logger  *slog.Logger
	config  string
	name    string
	version string
}

// NewNaiveProxy probes the binary (`--version`).
func NewNaiveProxy(path string, logger *slog.Logger) (*NaiveProxy, error) {
	name, version, err := probeVersion(path, "--version")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NaiveProxy{
		proc:    process{path: path},
		logger:  logger,
		name:    name,
		version: version,
	}, nil
}

func (c *NaiveProxy) Name() string    { return c.name }
func (c *NaiveProxy) Version() string { return c.version }

func (c *NaiveProxy) Run() error {
	return c.proc.start(splitArgs(c.config), "")
}

func (c *NaiveProxy) Stop() error     { return c.proc.stop() }
func (c *NaiveProxy) Restart() error  { return restart(c) }
func (c *NaiveProxy) IsRunning() bool { return c.proc.isRunning() }

func (c *NaiveProxy) SetConfig(config string) error {
	c.config = config
	return nil
}

func (c *NaiveProxy) Config() string { return c.config }

func (c *NaiveProxy) SetConfigByNode(node *repository.NodeData, inbounds config.Inbounds) error {
	if inbounds.HTTP != nil && inbounds.HTTP.Enable {
		c.logger.Warn("naiveproxy core has no http inbound support")
	}
	socks := inbounds.SOCKS5
	if socks == nil {
		return fmt.Errorf("socks inbound not found")
	}

	scheme, _, _ := strings.Cut(node.URL, "://")
	switch scheme {
	case "naive+https", "naive+quic":
	default:
		return fmt.Errorf("protocol error: %s", scheme)
	}

	// naive+https://... -> https://...
	proxyURL := strings.TrimPrefix(node.URL, "naive+")

	content := fmt.Sprintf(" --listen=socks://%s:%d --proxy=%s",
		socks.Listen, socks.Port, proxyURL)
	return c.SetConfig(content)
}

func (c *NaiveProxy) TakeStdout() io.ReadCloser { return c.proc.takeStdout() }
func (c *NaiveProxy) Close() error              { return c.proc.close() }
