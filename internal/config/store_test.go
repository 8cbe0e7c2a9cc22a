package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultSkeleton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "acolors.json")

	store, err := Load(path)
	require.NoError(t, err)

	inbounds := store.Inbounds()
	require.NotNil(t, inbounds.SOCKS5)
	assert.True(t, inbounds.SOCKS5.Enable)
	assert.Equal(t, "127.0.0.1", inbounds.SOCKS5.Listen)
	assert.Equal(t, uint32(4444), inbounds.SOCKS5.Port)
	assert.True(t, inbounds.SOCKS5.UDPEnable)
	assert.Equal(t, "127.0.0.1", inbounds.SOCKS5.UDPIP)

	require.NotNil(t, inbounds.HTTP)
	assert.True(t, inbounds.HTTP.Enable)
	assert.Equal(t, uint32(4445), inbounds.HTTP.Port)

	// The skeleton landed on disk.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"inbounds"`)
}

func TestLoadEmptyFileGetsSkeleton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acolors.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, store.Inbounds().SOCKS5)
}

func TestSetInboundsPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acolors.json")

	store, err := Load(path)
	require.NoError(t, err)

	next := Inbounds{
		SOCKS5: &SOCKS5Inbound{
			Enable: true,
			Listen: "127.0.0.1",
			Port:   1080,
			Auth:   &Auth{Enable: true, Username: "u", Password: "p"},
		},
	}
	require.NoError(t, store.SetInbounds(next))

	// A fresh load observes the same settings.
	reloaded, err := Load(path)
	require.NoError(t, err)

	inbounds := reloaded.Inbounds()
	require.NotNil(t, inbounds.SOCKS5)
	assert.Equal(t, uint32(1080), inbounds.SOCKS5.Port)
	require.NotNil(t, inbounds.SOCKS5.Auth)
	assert.Equal(t, "u", inbounds.SOCKS5.Auth.Username)
	assert.Equal(t, "127.0.0.1", inbounds.SOCKS5.UDPIP)
	assert.Nil(t, inbounds.HTTP)
}

func TestSetInboundsPreservesUnknownMembers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acolors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"inbounds": {"socks5": {"enable": true, "listen": "127.0.0.1", "port": 4444}},
		"cores": [{"name": "naiveproxy", "path": "/usr/bin/naive", "tag": "naive"}]
	}`), 0o644))

	store, err := Load(path)
	require.NoError(t, err)

	cores := store.Cores()
	require.Len(t, cores, 1)
	assert.Equal(t, "naive", cores[0].Tag)

	require.NoError(t, store.SetInbounds(Inbounds{
		HTTP: &HTTPInbound{Enable: true, Listen: "127.0.0.1", Port: 8118},
	}))

	var doc map[string]any
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Contains(t, doc, "cores")

	inbounds := doc["inbounds"].(map[string]any)
	assert.Contains(t, inbounds, "http")
	assert.NotContains(t, inbounds, "socks5")
}

func TestSetInboundsFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acolors.json")

	store, err := Load(path)
	require.NoError(t, err)

	// Make the file unparseable so the pre-write read fails.
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	err = store.SetInbounds(Inbounds{HTTP: &HTTPInbound{Enable: true, Port: 9}})
	require.Error(t, err)

	// The old in-memory snapshot is still served.
	inbounds := store.Inbounds()
	require.NotNil(t, inbounds.SOCKS5)
	assert.Equal(t, uint32(4444), inbounds.SOCKS5.Port)
}

func TestCloneIsDeep(t *testing.T) {
	original := Inbounds{
		SOCKS5: &SOCKS5Inbound{Enable: true, Auth: &Auth{Username: "a"}},
	}
	clone := original.Clone()
	clone.SOCKS5.Auth.Username = "b"
	assert.Equal(t, "a", original.SOCKS5.Auth.Username)
}
