package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/v2ray"
)

// APIConfig is the listen endpoint of the stats API inbound.
type APIConfig struct {
	Listen string
	Port   uint32
}

// RayCore composes the main V2Ray core with tag-addressed auxiliary cores.
// Auxiliaries whose tag is enabled participate in every run.
type RayCore struct {
	logger *slog.Logger

	ray      *V2Ray
	external map[string]Core
	enabled  map[string]struct{}
	config   *v2ray.Config
	api      *APIConfig
}

// NewRayCore creates an empty slot.
func NewRayCore(logger *slog.Logger) *RayCore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RayCore{
		logger:   logger,
		external: make(map[string]Core),
		enabled:  make(map[string]struct{}),
		config:   &v2ray.Config{},
	}
}

// SetRayCore installs the main core.
func (r *RayCore) SetRayCore(core *V2Ray) {
	r.ray = core
}

// AddExternalCore registers an auxiliary core under tag.
func (r *RayCore) AddExternalCore(tag string, core Core) {
	r.external[tag] = core
}

// ExternalCore looks up an auxiliary core.
func (r *RayCore) ExternalCore(tag string) (Core, bool) {
	core, ok := r.external[tag]
	return core, ok
}

// Tags lists the registered auxiliary tags, sorted.
func (r *RayCore) Tags() []string {
	tags := make([]string, 0, len(r.external))
	for tag := range r.external {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// EnableTag marks tag as participating in runs.
func (r *RayCore) EnableTag(tag string) {
	r.enabled[tag] = struct{}{}
}

// DisableTag removes tag from the run set.
func (r *RayCore) DisableTag(tag string) {
	delete(r.enabled, tag)
}

// DisableAllTags clears the run set.
func (r *RayCore) DisableAllTags() {
	r.enabled = make(map[string]struct{})
}

// SetAPIAddress configures the stats API endpoint; an empty listen clears
// it.
func (r *RayCore) SetAPIAddress(listen string, port uint32) {
	if listen == "" {
		r.api = nil
		return
	}
	r.api = &APIConfig{Listen: listen, Port: port}
}

// APIConfig returns the configured stats endpoint, nil when disabled.
func (r *RayCore) APIConfig() *APIConfig {
	if r.api == nil {
		return nil
	}
	api := *r.api
	return &api
}

// SetConfigByNode regenerates the V2Ray config from node and inbounds,
// re-applies the API augmentation when an endpoint is set, and refreshes
// the enabled auxiliaries' own configs.
func (r *RayCore) SetConfigByNode(node *repository.NodeData, inbounds config.Inbounds) error {
	cfg, err := v2ray.Generate(node, inbounds)
	if err != nil {
		return err
	}
	if r.api != nil {
		cfg.AttachAPI(r.api.Listen, r.api.Port)
	}
	r.config = cfg

	for tag := range r.enabled {
		aux, ok := r.external[tag]
		if !ok {
			continue
		}
		if err := aux.SetConfigByNode(node, inbounds); err != nil {
			return fmt.Errorf("configure core %q: %w", tag, err)
		}
	}
	return nil
}

// Run starts the enabled auxiliaries and then the main core. If any
// auxiliary fails to start, the ones already started are stopped and the
// aggregated error is returned.
func (r *RayCore) Run() error {
	var started []Core
	for tag := range r.enabled {
		aux, ok := r.external[tag]
		if !ok {
			continue
		}
		if err := aux.Run(); err != nil {
			errs := []error{fmt.Errorf("run core %q: %w", tag, err)}
			for _, c := range started {
				if stopErr := c.Stop(); stopErr != nil {
					errs = append(errs, stopErr)
				}
			}
			return errors.Join(errs...)
		}
		started = append(started, aux)
	}

	if r.ray == nil {
		return fmt.Errorf("ray core not found")
	}

	content, err := v2ray.ConfigString(r.config)
	if err != nil {
		return err
	}
	if err := r.ray.SetConfig(content); err != nil {
		return err
	}
	return r.ray.Run()
}

// Stop stops the enabled auxiliaries (aggregating errors) and the main
// core.
func (r *RayCore) Stop() error {
	var errs []error
	for tag := range r.enabled {
		aux, ok := r.external[tag]
		if !ok {
			continue
		}
		if err := aux.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop core %q: %w", tag, err))
		}
	}

	if r.ray == nil {
		errs = append(errs, fmt.Errorf("ray core not found"))
	} else if err := r.ray.Stop(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Restart is stop-if-running followed by run.
func (r *RayCore) Restart() error {
	if r.IsRunning() {
		if err := r.Stop(); err != nil {
			return err
		}
	}
	return r.Run()
}

func (r *RayCore) IsRunning() bool {
	return r.ray != nil && r.ray.IsRunning()
}

func (r *RayCore) Name() string {
	if r.ray == nil {
		return ""
	}
	return r.ray.Name()
}

func (r *RayCore) Version() string {
	if r.ray == nil {
		return ""
	}
	return r.ray.Version()
}

func (r *RayCore) TakeStdout() io.ReadCloser {
	if r.ray == nil {
		return nil
	}
	return r.ray.TakeStdout()
}

// Close kills every still-running child.
func (r *RayCore) Close() error {
	var errs []error
	for _, aux := range r.external {
		if err := aux.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.ray != nil {
		if err := r.ray.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewCoreByName constructs an auxiliary core adapter for a configured
// core entry.
func NewCoreByName(name, path string, logger *slog.Logger) (Core, error) {
	switch strings.ToLower(name) {
	case "shadowsocks", "sslocal":
		return NewShadowsocks(path, logger)
	case "naiveproxy", "naive":
		return NewNaiveProxy(path, logger)
	case "trojan-go", "trojango":
		return NewTrojanGo(path, logger)
	default:
		return nil, fmt.Errorf("unknown core name: %s", name)
	}
}
