// Package netutil holds the small networking helpers shared by the serve
// command, the core manager and the tools service.
package netutil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// TCPPortIsAvailable reports whether the port can be bound on 127.0.0.1.
func TCPPortIsAvailable(port uint16) bool {
	lis, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	lis.Close()
	return true
}

// TCPGetAvailablePort scans [lo, hi) and returns the first bindable port.
func TCPGetAvailablePort(lo, hi uint16) (uint16, bool) {
	for port := lo; port < hi; port++ {
		if TCPPortIsAvailable(port) {
			return port, true
		}
	}
	return 0, false
}

// Tcping measures the time to establish a TCP connection to address.
func Tcping(ctx context.Context, address string, timeout time.Duration) (time.Duration, error) {
	start := time.Now()

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return 0, err
	}
	conn.Close()

	return time.Since(start), nil
}

// GetHTTPContent fetches the body of url, optionally through proxy.
func GetHTTPContent(ctx context.Context, target, proxy string) (string, error) {
	transport := &http.Transport{}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return "", fmt.Errorf("parse proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{Transport: transport, Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
