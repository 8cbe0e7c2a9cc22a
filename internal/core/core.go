// Package core supervises the external proxy binaries as child processes.
package core

import (
	"errors"
	"io"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
)

var (
	// ErrCoreRunning is returned by Run while a child is alive.
	ErrCoreRunning = errors.New("core is running")
	// ErrNotRunning is returned by Stop with no child to stop.
	ErrNotRunning = errors.New("core not running")
)

// Core is the capability set shared by every supervised proxy binary.
// Implementations are not safe for concurrent use; the core manager
// serializes access behind its slot mutex.
type Core interface {
	Name() string
	Version() string

	Run() error
	Stop() error
	Restart() error
	IsRunning() bool

	SetConfig(config string) error
	Config() string
	SetConfigByNode(node *repository.NodeData, inbounds config.Inbounds) error

	// TakeStdout hands over the running child's stdout pipe; it returns
	// nil when the child is not running or the pipe was already taken.
	TakeStdout() io.ReadCloser

	// Close kills a still-running child. Idempotent.
	Close() error
}

// Restart is stop-if-running followed by run; every variant shares it.
func restart(c Core) error {
	if c.IsRunning() {
		if err := c.Stop(); err != nil {
			return err
		}
	}
	return c.Run()
}
