package vulndb

import _ "embed"

//go:embed testdata/sample_vuln_db.json
var sampleJSON []byte

// Sample returns the bundled example database (OpenSSH 7.4, Apache 2.4.41,
// MySQL 8.0.32, nginx 1.18.0, plus a "contains:" pattern), mirroring
// NullScan's create_sample_database(). It is an explicit opt-in default —
// useful for tests and for a "--vuln-db" fallback a caller chooses to use —
// not a silent substitute when a real database is missing or malformed.
func Sample() (*Database, error) {
	return parse("embedded:sample_vuln_db.json", sampleJSON)
}
