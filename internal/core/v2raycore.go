package core

import (
	"io"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/v2ray"
)

// V2Ray supervises the main core. The binary is spawned as
// `run -format json` with the config written to standard input.
type V2Ray struct {
	proc    process
	config  string
	name    string
	version string
}

// NewV2Ray probes the binary (`version`) for its name and version.
func NewV2Ray(path string) (*V2Ray, error) {
	name, version, err := probeVersion(path, "version")
	if err != nil {
		return nil, err
	}
	return &V2Ray{
		proc:    process{path: path},
		name:    name,
		version: version,
	}, nil
}

func (c *V2Ray) Name() string    { return c.name }
func (c *V2Ray) Version() string { return c.version }

func (c *V2Ray) Run() error {
	return c.proc.start([]string{"run", "-format", "json"}, c.config)
}

func (c *V2Ray) Stop() error     { return c.proc.stop() }
func (c *V2Ray) Restart() error  { return restart(c) }
func (c *V2Ray) IsRunning() bool { return c.proc.isRunning() }

func (c *V2Ray) SetConfig(config string) error {
	c.config = config
	return nil
}

func (c *V2Ray) Config() string { return c.config }

func (c *V2Ray) SetConfigByNode(node *repository.NodeData, inbounds config.Inbounds) error {
	cfg, err := v2ray.Generate(node, inbounds)
	if err != nil {
		return err
	}
	content, err := v2ray.ConfigString(cfg)
	if err != nil {
		return err
	}
	return c.SetConfig(content)
}

func (c *V2Ray) TakeStdout() io.ReadCloser { return c.proc.takeStdout() }
func (c *V2Ray) Close() error              { return c.proc.close() }
