package core

import (
	"context"
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// TargetError distinguishes the two fatal-to-the-run error classes C1 can
// raise: a malformed/oversized target spec, or a DNS lookup that resolved
// to nothing.
type TargetError struct {
	Spec string
	Kind string
	Err  error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Kind, e.Spec, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

func invalidTarget(spec string, err error) error {
	return &TargetError{Spec: spec, Kind: "InvalidTarget", Err: err}
}

func dnsResolutionFailed(spec string, err error) error {
	return &TargetError{Spec: spec, Kind: "DnsResolutionFailed", Err: err}
}

// ResolveOptions controls how Resolve expands a target spec.
type ResolveOptions struct {
	// Fast, when true, rejects hostname resolution and truncates oversized
	// CIDR blocks silently instead of logging a warning (spec.md §4.1's
	// "fast" resolver path).
	Fast bool

	// Warn receives a human-readable warning, e.g. on CIDR truncation. Nil
	// is a valid no-op sink; Fast mode never calls it.
	Warn func(string)
}

// Resolve expands a comma-separated target spec (single IP, hostname, or
// CIDR block, or a mix) into an ordered list of IP addresses, per spec.md
// §4.1 (C1). Order of the comma-separated items is preserved.
func Resolve(ctx context.Context, spec string, opts ResolveOptions) ([]net.IP, error) {
	var all []net.IP
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		ips, err := resolveOne(ctx, item, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, ips...)
	}
	if len(all) == 0 {
		return nil, invalidTarget(spec, fmt.Errorf("no targets resolved"))
	}
	return all, nil
}

func resolveOne(ctx context.Context, item string, opts ResolveOptions) ([]net.IP, error) {
	if strings.Contains(item, "/") {
		return resolveCIDR(item, opts)
	}
	if ip := net.ParseIP(item); ip != nil {
		return []net.IP{ip}, nil
	}
	if opts.Fast {
		return nil, invalidTarget(item, fmt.Errorf("hostname resolution disabled in fast mode"))
	}
	return resolveHostname(ctx, item)
}

// resolveHostname looks up item via DNS, taking the first returned address
// — the synchronous-equivalent of dialing ":80" just to force a lookup.
// item is normalized to its ASCII (punycode) form first so an
// internationalized hostname resolves the same way a browser would send
// it on the wire.
func resolveHostname(ctx context.Context, item string) ([]net.IP, error) {
	ascii, err := idna.Lookup.ToASCII(item)
	if err != nil {
		return nil, invalidTarget(item, err)
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, ascii)
	if err != nil {
		return nil, dnsResolutionFailed(item, err)
	}
	if len(addrs) == 0 {
		return nil, dnsResolutionFailed(item, fmt.Errorf("empty answer"))
	}
	ip := net.ParseIP(addrs[0])
	if ip == nil {
		return nil, dnsResolutionFailed(item, fmt.Errorf("unparseable address %q", addrs[0]))
	}
	return []net.IP{ip}, nil
}

// resolveCIDR enumerates every host address in network, excluding network
// and broadcast addresses, capped at MaxCIDRHosts. Overflow is truncated —
// silently in fast mode, with a warning otherwise.
func resolveCIDR(item string, opts ResolveOptions) ([]net.IP, error) {
	_, network, err := net.ParseCIDR(item)
	if err != nil {
		return nil, invalidTarget(item, err)
	}

	first := cloneIP(network.IP.Mask(network.Mask))
	last := broadcastAddr(network)

	hosts := make([]net.IP, 0, MaxCIDRHosts)
	cur := cloneIP(first)
	truncated := false

	// Exclude the network address itself; for IPv4 /0-/30 style blocks the
	// broadcast address is excluded too (per net.IPNet's own convention:
	// point-to-point /31s and single-host /32s have no excludable
	// network/broadcast pair and are scanned as-is).
	skipNetwork := !isPointToPoint(network)
	skipBroadcast := skipNetwork && isIPv4(network.IP)

	for network.Contains(cur) {
		if len(hosts) >= MaxCIDRHosts {
			truncated = true
			break
		}
		if skipNetwork && cur.Equal(first) {
			incrementIP(cur)
			continue
		}
		if skipBroadcast && cur.Equal(last) {
			incrementIP(cur)
			continue
		}
		hosts = append(hosts, cloneIP(cur))
		incrementIP(cur)
	}

	if truncated && !opts.Fast && opts.Warn != nil {
		opts.Warn(fmt.Sprintf("CIDR %s truncated to %d hosts", item, MaxCIDRHosts))
	}

	if len(hosts) == 0 {
		return nil, invalidTarget(item, fmt.Errorf("CIDR contains no usable host addresses"))
	}
	return hosts, nil
}

func isPointToPoint(n *net.IPNet) bool {
	ones, bits := n.Mask.Size()
	return bits-ones <= 1
}

func isIPv4(ip net.IP) bool {
	return ip.To4() != nil
}

func broadcastAddr(n *net.IPNet) net.IP {
	ip := cloneIP(n.IP.Mask(n.Mask))
	for i := range ip {
		ip[i] |= ^n.Mask[i]
	}
	return ip
}

func cloneIP(ip net.IP) net.IP {
	out := make(net.IP, len(ip))
	copy(out, ip)
	return out
}

func incrementIP(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] != 0 {
			return
		}
	}
}
