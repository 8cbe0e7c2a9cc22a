package core

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
)

// stubCore records lifecycle calls; runErr makes Run fail.
type stubCore struct {
	running bool
	runs    int
	stops   int
	runErr  error
}

func (s *stubCore) Name() string    { return "stub" }
func (s *stubCore) Version() string { return "0.0" }

func (s *stubCore) Run() error {
	s.runs++
	if s.runErr != nil {
		return s.runErr
	}
	s.running = true
	return nil
}

func (s *stubCore) Stop() error {
	if !s.running {
		return ErrNotRunning
	}
	s.running = false
	s.stops++
	return nil
}

func (s *stubCore) Restart() error  { return restart(s) }
func (s *stubCore) IsRunning() bool { return s.running }

func (s *stubCore) SetConfig(string) error { return nil }
func (s *stubCore) Config() string         { return "" }
func (s *stubCore) SetConfigByNode(*repository.NodeData, config.Inbounds) error {
	return nil
}
func (s *stubCore) TakeStdout() io.ReadCloser { return nil }
func (s *stubCore) Close() error              { return nil }

func TestRayCoreRunWithoutMainCore(t *testing.T) {
	slot := NewRayCore(slog.Default())
	require.Error(t, slot.Run())
}

func TestRayCoreAuxRollbackOnFailure(t *testing.T) {
	path := writeFakeCore(t, "fakeray", "5.0")
	main, err := NewV2Ray(path)
	require.NoError(t, err)

	good := &stubCore{}
	bad := &stubCore{runErr: errors.New("spawn failed")}

	slot := NewRayCore(slog.Default())
	slot.SetRayCore(main)
	slot.AddExternalCore("good", good)
	slot.AddExternalCore("bad", bad)
	slot.EnableTag("good")
	slot.EnableTag("bad")
	t.Cleanup(func() { slot.Close() })

	err = slot.Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "spawn failed")

	// Whatever managed to start was rolled back; the main core never ran.
	assert.False(t, good.running)
	assert.False(t, slot.IsRunning())
}

func TestRayCoreRunAndStopWithAux(t *testing.T) {
	path := writeFakeCore(t, "fakeray", "5.0")
	main, err := NewV2Ray(path)
	require.NoError(t, err)

	aux := &stubCore{}

	slot := NewRayCore(slog.Default())
	slot.SetRayCore(main)
	slot.AddExternalCore("aux", aux)
	slot.EnableTag("aux")
	t.Cleanup(func() { slot.Close() })

	require.NoError(t, slot.Run())
	assert.True(t, slot.IsRunning())
	assert.True(t, aux.running)

	require.NoError(t, slot.Stop())
	assert.False(t, slot.IsRunning())
	assert.False(t, aux.running)
	assert.Equal(t, 1, aux.stops)
}

func TestRayCoreTagsSorted(t *testing.T) {
	slot := NewRayCore(slog.Default())
	slot.AddExternalCore("zeta", &stubCore{})
	slot.AddExternalCore("alpha", &stubCore{})
	assert.Equal(t, []string{"alpha", "zeta"}, slot.Tags())
}

func TestRayCoreAPILifecycle(t *testing.T) {
	slot := NewRayCore(slog.Default())

	assert.Nil(t, slot.APIConfig())

	slot.SetAPIAddress("127.0.0.1", 11500)
	api := slot.APIConfig()
	require.NotNil(t, api)
	assert.Equal(t, uint32(11500), api.Port)

	slot.SetAPIAddress("", 0)
	assert.Nil(t, slot.APIConfig())
}

func TestRayCoreSetConfigByNodeAppliesAPI(t *testing.T) {
	path := writeFakeCore(t, "fakeray", "5.0")
	main, err := NewV2Ray(path)
	require.NoError(t, err)

	slot := NewRayCore(slog.Default())
	slot.SetRayCore(main)
	slot.SetAPIAddress("127.0.0.1", 11500)
	t.Cleanup(func() { slot.Close() })

	node := &repository.NodeData{
		Raw: `{"protocol":"shadowsocks","settings":{"shadowsocks":{"servers":[{"address":"h","method":"aes-256-gcm","password":"p","port":1}]}}}`,
		URL: "ss://x@h:1#t",
	}
	require.NoError(t, slot.SetConfigByNode(node, testInbounds()))
	require.NoError(t, slot.Run())
	t.Cleanup(func() { slot.Stop() })

	cfg := main.Config()
	assert.Contains(t, cfg, `"ACOLORS_API_INBOUND"`)
	assert.Contains(t, cfg, `"stats":{}`)
	assert.Contains(t, cfg, `"PROXY"`)
}
