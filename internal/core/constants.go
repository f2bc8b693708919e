package core

import "time"

// Scan engine defaults.
const (
	// DefaultConcurrency is the default number of concurrent port tasks per host.
	DefaultConcurrency = 100

	// DefaultMaxHosts is the default number of hosts scanned concurrently.
	DefaultMaxHosts = 1

	// DefaultTimeoutMs is the default per-connect timeout in milliseconds.
	DefaultTimeoutMs = 3000

	// DefaultPingTimeoutMs is the default reachability probe timeout in milliseconds.
	DefaultPingTimeoutMs = 800

	// FastBatchSize is the chunk size used by the fast-batched scan path.
	FastBatchSize = 200

	// MaxCIDRHosts is the hard cap on hosts enumerated from a single CIDR block.
	MaxCIDRHosts = 1024
)

// ResultChannelBufferSize is the buffer size for the engine's result channel.
const ResultChannelBufferSize = 1000

// Banner grabbing configuration.
const (
	// BannerGrabBudget is the wall-clock budget for a single protocol probe exchange.
	BannerGrabBudget = 5 * time.Second

	// BannerBufferSize is the read buffer size for the generic fallback grab.
	BannerBufferSize = 1024
)

// Progress reporting configuration.
const ProgressReportInterval = 100 * time.Millisecond

// Reachability probe tiers (see spec.md §4.3).
var (
	primaryProbePorts   = []int{80, 443, 22, 135, 445}
	secondaryProbePorts = []int{21, 25, 53, 110, 993, 995}
)
