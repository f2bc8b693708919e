package core

import (
	"context"
	"net"
	"strconv"
	"time"
)

// scanPort connects to host:port once under timeout, attaches the
// well-known service name, and — when grabBanners is set — attempts a
// protocol-aware banner grab on the same connection (C7, spec.md §4.7).
// A closed or filtered port still produces a ScanResult with IsOpen false
// so callers can report total-scanned counts honestly.
func scanPort(ctx context.Context, host net.IP, port int, timeout time.Duration, grabBanners, fast bool) ScanResult {
	start := time.Now()
	dialer := &net.Dialer{Timeout: timeout}
	addr := net.JoinHostPort(host.String(), strconv.Itoa(port))

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		elapsed := time.Since(start)
		return ScanResult{
			Target:         host,
			Host:           host.String(),
			Port:           port,
			IsOpen:         false,
			ResponseTime:   elapsed,
			ResponseTimeMs: elapsed.Milliseconds(),
		}
	}
	defer conn.Close()

	elapsed := time.Since(start)
	result := ScanResult{
		Target:         host,
		Host:           host.String(),
		Port:           port,
		IsOpen:         true,
		ResponseTime:   elapsed,
		ResponseTimeMs: elapsed.Milliseconds(),
	}

	if fast {
		result.Service = fastServiceName(port)
	} else {
		result.Service = serviceName(port)
	}

	if grabBanners {
		if banner, err := GrabBanner(conn, port); err == nil {
			result.Banner = banner
		}
	}

	return result
}
