// Package vulndb loads a vulnerability pattern database and correlates
// protocol banners against it. It depends only on core.Vulnerability and
// core.Severity, never the other way around, so the scan engine consumes
// this package through the core.Correlator interface.
package vulndb

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lucchesi-sec/nscan/internal/core"
)

// DatabaseError is raised by Load on a missing file or malformed document.
type DatabaseError struct {
	Kind string
	Path string
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func databaseMissing(path string, err error) error {
	return &DatabaseError{Kind: "DatabaseMissing", Path: path, Err: err}
}

func databaseMalformed(path string, err error) error {
	return &DatabaseError{Kind: "DatabaseMalformed", Path: path, Err: err}
}

// ServicePattern pairs a match pattern with the vulnerabilities it implies
// (C9, spec.md §3/§4.9). Pattern is prefix-tagged: "regex:", "contains:",
// "version:", or unprefixed for a plain case-insensitive substring.
type ServicePattern struct {
	Pattern         string              `json:"pattern"`
	ServiceType     string              `json:"service_type"`
	Vulnerabilities []core.Vulnerability `json:"vulnerabilities"`
}

// rawVulnerability mirrors the JSON shape with Severity as a string, since
// core.Vulnerability keeps its typed Severity unexported from JSON.
type rawVulnerability struct {
	CVE         string   `json:"cve"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	CVSSScore   *float64 `json:"cvss_score,omitempty"`
	Published   string   `json:"published,omitempty"`
	References  []string `json:"references,omitempty"`
}

type rawPattern struct {
	Pattern         string             `json:"pattern"`
	ServiceType     string             `json:"service_type"`
	Vulnerabilities []rawVulnerability `json:"vulnerabilities"`
}

type rawDatabase struct {
	Version     string       `json:"version"`
	LastUpdated string       `json:"last_updated"`
	Patterns    []rawPattern `json:"patterns"`
}

// Database holds a loaded vulnerability pattern set (C9). The pattern list
// is retained in declaration order for Check's deterministic scan, and a
// secondary map caches pattern string -> vulnerabilities for fast lookup.
// Nothing reads that map yet: Check and Stats both walk the ordered list,
// since every pattern must be tried against every banner regardless.
type Database struct {
	Version      string
	LastUpdated  string
	Patterns     []ServicePattern
	patternIndex map[string][]core.Vulnerability
}

// Load reads and parses a vulnerability database from path (C9, spec.md
// §4.9). A missing file produces DatabaseMissing; a parse or schema error
// produces DatabaseMalformed.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, databaseMissing(path, err)
		}
		return nil, databaseMalformed(path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Database, error) {
	var raw rawDatabase
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, databaseMalformed(path, err)
	}
	if raw.Version == "" || len(raw.Patterns) == 0 {
		return nil, databaseMalformed(path, fmt.Errorf("missing version or empty pattern list"))
	}

	db := &Database{
		Version:      raw.Version,
		LastUpdated:  raw.LastUpdated,
		Patterns:     make([]ServicePattern, 0, len(raw.Patterns)),
		patternIndex: make(map[string][]core.Vulnerability, len(raw.Patterns)),
	}

	for _, rp := range raw.Patterns {
		if rp.Pattern == "" {
			return nil, databaseMalformed(path, fmt.Errorf("pattern entry missing %q field", "pattern"))
		}
		vulns := make([]core.Vulnerability, 0, len(rp.Vulnerabilities))
		for _, rv := range rp.Vulnerabilities {
			vulns = append(vulns, core.Vulnerability{
				CVE:         rv.CVE,
				Description: rv.Description,
				Severity:    core.ParseSeverity(rv.Severity),
				SeverityStr: rv.Severity,
				CVSSScore:   rv.CVSSScore,
				Published:   rv.Published,
				References:  rv.References,
			})
		}
		db.Patterns = append(db.Patterns, ServicePattern{
			Pattern:         rp.Pattern,
			ServiceType:     rp.ServiceType,
			Vulnerabilities: vulns,
		})
		db.patternIndex[rp.Pattern] = vulns
	}

	return db, nil
}

// Stats summarizes the loaded database: pattern count, total vulnerability
// count, and a per-severity histogram (supplemented from original_source's
// VulnChecker::get_stats). It is a library call only; neither the
// orchestrator's summary nor any CLI flag uses it.
type Stats struct {
	TotalPatterns        int
	TotalVulnerabilities int
	SeverityCounts       map[string]int
	Version              string
	LastUpdated          string
}

func (db *Database) Stats() Stats {
	stats := Stats{
		TotalPatterns:  len(db.Patterns),
		SeverityCounts: make(map[string]int),
		Version:        db.Version,
		LastUpdated:    db.LastUpdated,
	}
	for _, p := range db.Patterns {
		stats.TotalVulnerabilities += len(p.Vulnerabilities)
		for _, v := range p.Vulnerabilities {
			stats.SeverityCounts[v.Severity.String()]++
		}
	}
	return stats
}
