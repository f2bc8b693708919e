// Package config provides configuration management for the scanner.
//
// This package implements hierarchical configuration loading using Viper,
// supporting multiple configuration sources with the following precedence
// (highest to lowest):
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (NSCAN_*)
//  3. Configuration file (~/.nscan.yaml)
//  4. Default values (lowest priority)
//
// Example configuration file (~/.nscan.yaml):
//
//	concurrency: 100
//	max_hosts: 1
//	timeout_ms: 3000
//	ping_timeout_ms: 800
//	banners: true
//	vuln_check: true
//	vuln_db_path: vuln_db.json
//	format: json
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Timeout() // Converts milliseconds to time.Duration
//
// Validation:
//
// All configuration values are validated using struct tags with
// go-playground/validator. Invalid values return descriptive errors:
//
//   - concurrency: 1-100,000 concurrent port tasks
//   - timeout_ms: 1-60,000 milliseconds
//   - max_hosts: 1-10,000 concurrent host scans
//   - format: json, markdown, csv, html
//   - preset: top-100, top-1000
package config
