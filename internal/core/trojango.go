package core

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
)

// TrojanGo supervises a trojan-go auxiliary core.
type TrojanGo struct {
	proc    process
	logger  *slog.Logger
	config  string
	name    string
	version string
}

// NewTrojanGo probes the binary (`--version`).
func NewTrojanGo(path string, logger *slog.Logger) (*TrojanGo, error) {
	name, version, err := probeVersion(path, "--version")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrojanGo{
		proc:    process{path: path},
		logger:  logger,
		name:    name,
		version: version,
	}, nil
}

func (c *TrojanGo) Name() string    { return c.name }
func (c *TrojanGo) Version() string { return c.version }

func (c *TrojanGo) Run() error {
	return c.proc.start(splitArgs(c.config), "")
}

func (c *TrojanGo) Stop() error     { return c.proc.stop() }
func (c *TrojanGo) Restart() error  { return restart(c) }
func (c *TrojanGo) IsRunning() bool { return c.proc.isRunning() }

func (c *TrojanGo) SetConfig(config string) error {
	c.config = config
	return nil
}

func (c *TrojanGo) Config() string { return c.config }

func (c *TrojanGo) SetConfigByNode(node *repository.NodeData, inbounds config.Inbounds) error {
	socks := inbounds.SOCKS5
	if socks == nil {
		return fmt.Errorf("socks inbound not found")
	}

	var b strings.Builder
	fmt.Fprintf(&b, " -url-option listen=%s:%d", socks.Listen, socks.Port)

	scheme, content, _ := strings.Cut(node.URL, "://")
	switch scheme {
	case "trojan", "trojan-go":
		fmt.Fprintf(&b, " -url trojan-go://%s", content)
	case "":
		if err := appendTrojanGoURL(&b, node.Raw, node.Name); err != nil {
			return err
		}
	default:
		return fmt.Errorf("protocol error: %s", scheme)
	}

	return c.SetConfig(b.String())
}

func (c *TrojanGo) TakeStdout() io.ReadCloser { return c.proc.takeStdout() }
func (c *TrojanGo) Close() error              { return c.proc.close() }

// appendTrojanGoURL rebuilds a trojan-go share URL from a keyed trojan
// outbound blob, carrying sni and the ws/h2 transport segment.
func appendTrojanGoURL(b *strings.Builder, raw, name string) error {
	var outbound struct {
		Protocol string `json:"protocol"`
		Settings struct {
			Trojan struct {
				Servers []struct {
					Address  string `json:"address"`
					Port     uint32 `json:"port"`
					Password string `json:"password"`
				} `json:"servers"`
			} `json:"trojan"`
		} `json:"settings"`
		StreamSettings *struct {
			Network     string `json:"network"`
			TLSSettings *struct {
				ServerName string `json:"serverName"`
			} `json:"tlsSettings"`
			WSSettings *struct {
				Path    string            `json:"path"`
				Headers map[string]string `json:"headers"`
			} `json:"wsSettings"`
			HTTPSettings *struct {
				Path string   `json:"path"`
				Host []string `json:"host"`
			} `json:"httpSettings"`
		} `json:"streamSettings"`
	}
	if err := json.Unmarshal([]byte(raw), &outbound); err != nil {
		return fmt.Errorf("parse outbound: %w", err)
	}
	if outbound.Protocol != "trojan" {
		return fmt.Errorf("protocol error: %s", outbound.Protocol)
	}
	if len(outbound.Settings.Trojan.Servers) == 0 {
		return fmt.Errorf("no trojan servers")
	}

	server := outbound.Settings.Trojan.Servers[0]
	stream := outbound.StreamSettings
	if stream == nil {
		return fmt.Errorf("no stream settings")
	}

	fmt.Fprintf(b, " -url trojan-go://%s@%s:%d/?", server.Password, server.Address, server.Port)

	hasQuery := false
	if tls := stream.TLSSettings; tls != nil && tls.ServerName != "" {
		fmt.Fprintf(b, "sni=%s", tls.ServerName)
		hasQuery = true
	}

	switch stream.Network {
	case "", "tcp":
	case "ws":
		path := "/"
		host := ""
		if ws := stream.WSSettings; ws != nil {
			if ws.Path != "" {
				path = ws.Path
			}
			host = ws.Headers["Host"]
		}
		if hasQuery {
			b.WriteByte('&')
		}
		fmt.Fprintf(b, "type=ws&path=%s", path)
		if host != "" {
			fmt.Fprintf(b, "&host=%s", host)
		}
	case "http":
		h2 := stream.HTTPSettings
		if h2 == nil {
			return fmt.Errorf("no httpSettings")
		}
		path := h2.Path
		if path == "" {
			path = "/"
		}
		if hasQuery {
			b.WriteByte('&')
		}
		fmt.Fprintf(b, "type=h2&path=%s&host=%s",
			path, url.QueryEscape(strings.Join(h2.Host, ",")))
	default:
		return fmt.Errorf("no such network: %s", stream.Network)
	}

	fmt.Fprintf(b, "#%s", name)
	return nil
}
