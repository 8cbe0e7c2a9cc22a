package server

import (
	"context"
	"errors"
	"net"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/arktoria/acolors/internal/core"
	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/serialize"
)

// errNoData flags requests missing their payload message.
var errNoData = errors.New("no data in request")

// errNoNodeSelected fails run/restart before any node was chosen.
var errNoNodeSelected = errors.New("no node selected")

// rpcError maps internal error kinds onto gRPC status codes.
func rpcError(op string, err error) error {
	return status.Errorf(codeOf(err), "%s: %v", op, err)
}

func codeOf(err error) codes.Code {
	var netErr net.Error

	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, repository.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, repository.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(err, serialize.ErrParse), errors.Is(err, errNoData):
		return codes.InvalidArgument
	case errors.Is(err, core.ErrCoreRunning), errors.Is(err, core.ErrNotRunning),
		errors.Is(err, errNoNodeSelected):
		return codes.FailedPrecondition
	case errors.Is(err, context.DeadlineExceeded), os.IsTimeout(err):
		return codes.Unavailable
	case errors.As(err, &netErr):
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
