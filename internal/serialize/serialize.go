// Package serialize converts proxy share URLs to node records and back
// into outbound JSON fragments for core configs.
package serialize

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/support/jsonutil"
	"github.com/arktoria/acolors/internal/v2ray"
)

// ErrParse tags every malformed URL, base64 or JSON failure.
var ErrParse = errors.New("parse error")

func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// DecodeNodeFromURL dispatches on the scheme before "://".
func DecodeNodeFromURL(url string) (*repository.NodeData, error) {
	scheme, _, found := strings.Cut(url, "://")
	if !found || scheme == "" {
		return nil, parseErrorf("no scheme in %q", url)
	}

	switch scheme {
	case "vmess":
		return vmessNodeFromBase64(url)
	case "ss":
		return shadowsocksNodeFromURL(url)
	case "trojan":
		return trojanNodeFromURL(url)
	case "naive+https", "naive+quic":
		return naiveproxyNodeFromURL(url)
	default:
		return nil, parseErrorf("scheme %q not implemented", scheme)
	}
}

// NodesFromBase64 decodes a subscription feed: a base64-encoded
// newline-separated URL list. Lines that fail to decode are logged and
// skipped.
func NodesFromBase64(content string, logger *slog.Logger) ([]repository.NodeData, error) {
	if logger == nil {
		logger = slog.Default()
	}

	decoded, err := decodeBase64(strings.TrimSpace(content))
	if err != nil {
		return nil, parseErrorf("subscription body: %v", err)
	}

	var nodes []repository.NodeData
	for _, line := range strings.Split(string(decoded), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		node, err := DecodeNodeFromURL(line)
		if err != nil {
			logger.Warn("node url parse error", "error", err)
			continue
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// decodeBase64 accepts padded and unpadded, standard and URL-safe input.
func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		if out, err := enc.DecodeString(s); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("invalid base64")
}

// prettyOutbound prunes default members and renders the raw blob stored on
// the node: two-space indentation, sorted keys.
func prettyOutbound(outbound *v2ray.OutboundObject) (string, error) {
	encoded, err := json.Marshal(outbound)
	if err != nil {
		return "", err
	}
	var root any
	if err := json.Unmarshal(encoded, &root); err != nil {
		return "", err
	}
	jsonutil.Prune(root)

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
