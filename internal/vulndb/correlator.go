package vulndb

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/lucchesi-sec/nscan/internal/core"
)

// versionToken extracts the first dotted version number from a banner
// (spec.md §4.10's "version:" match mode).
var versionToken = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Correlator checks banners against a loaded Database (C10). It satisfies
// core.Correlator, so the scan engine depends only on the interface.
type Correlator struct {
	db *Database

	mu    sync.Mutex
	regex map[string]*regexp.Regexp
}

// NewCorrelator wraps db for use as a core.Correlator.
func NewCorrelator(db *Database) *Correlator {
	return &Correlator{db: db, regex: make(map[string]*regexp.Regexp)}
}

// Check normalizes banner (trim + lowercase) and tests it against every
// pattern in the database, dispatching on the pattern's prefix tag.
// Matched patterns contribute all their vulnerabilities; the combined list
// is stably sorted by severity rank ascending. Invalid regex patterns are
// skipped rather than failing the whole check.
func (c *Correlator) Check(banner string) []core.Vulnerability {
	if banner == "" {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(banner))

	var found []core.Vulnerability
	for _, pattern := range c.db.Patterns {
		if c.matches(normalized, pattern.Pattern) {
			found = append(found, pattern.Vulnerabilities...)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Severity < found[j].Severity
	})
	return found
}

func (c *Correlator) matches(banner, pattern string) bool {
	switch {
	case strings.HasPrefix(pattern, "regex:"):
		re, ok := c.compile(strings.TrimPrefix(pattern, "regex:"))
		if !ok {
			return false
		}
		return re.MatchString(banner)
	case strings.HasPrefix(pattern, "contains:"):
		return strings.Contains(banner, strings.TrimPrefix(pattern, "contains:"))
	case strings.HasPrefix(pattern, "version:"):
		return c.matchesVersion(banner, strings.TrimPrefix(pattern, "version:"))
	default:
		return strings.Contains(banner, strings.ToLower(pattern))
	}
}

// matchesVersion extracts the first "a.b" or "a.b.c" token from banner and
// reports whether expr contains it verbatim — the same weak-but-documented
// containment check NullScan's matches_version used (spec.md §4.10's Open
// Question resolves on keeping this default rather than proper semver
// range comparison).
func (c *Correlator) matchesVersion(banner, expr string) bool {
	version := versionToken.FindString(banner)
	if version == "" {
		return false
	}
	return strings.Contains(expr, version)
}

// compile returns a cached compiled regex for expr, compiling and caching
// it on first use. The cache is guarded by a mutex since Check may run
// concurrently across a host's port tasks.
func (c *Correlator) compile(expr string) (*regexp.Regexp, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.regex[expr]; ok {
		return re, re != nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		c.regex[expr] = nil
		return nil, false
	}
	c.regex[expr] = re
	return re, true
}
