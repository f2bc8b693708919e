package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lucchesi-sec/nscan/internal/core"
	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

func sampleReport() *orchestrator.Report {
	return &orchestrator.Report{
		Hosts: []orchestrator.HostReport{
			{
				Host: "127.0.0.1",
				Results: []core.ScanResult{
					{
						Port:    22,
						IsOpen:  true,
						Service: "SSH",
						Banner:  "SSH-2.0-OpenSSH_7.4",
						Vulnerabilities: []core.Vulnerability{
							{CVE: "CVE-2018-15473", SeverityStr: "Medium", Description: "username enumeration"},
						},
					},
					{Port: 81, IsOpen: false},
				},
			},
		},
		Summary: orchestrator.Summary{
			Target:       "127.0.0.1",
			TotalTargets: 1,
			TotalPorts:   2,
			OpenPorts:    1,
			ClosedPorts:  1,
			ScanDuration: 42 * time.Millisecond,
			Timestamp:    "2026-07-31T00:00:00Z",
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, sampleReport(), buildSummary(sampleReport().Summary)); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}

	var dto jsonReportDTO
	if err := json.Unmarshal(buf.Bytes(), &dto); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if dto.Summary.OpenPorts != 1 {
		t.Errorf("Summary.OpenPorts = %d, want 1", dto.Summary.OpenPorts)
	}
	if len(dto.Hosts) != 1 || len(dto.Hosts[0].Results) != 2 {
		t.Fatalf("unexpected hosts/results shape: %+v", dto.Hosts)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	r := csv.NewReader(&buf)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 { // header + 2 results
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "host" {
		t.Errorf("header[0] = %q, want host", records[0][0])
	}
	if !strings.Contains(records[1][6], "CVE-2018-15473") {
		t.Errorf("vulnerabilities column = %q, want CVE reference", records[1][6])
	}
}

func TestSanitizeCSVFieldStripsFormulaPrefix(t *testing.T) {
	tests := map[string]string{
		"=cmd|'/c calc'!A1": "cmd|'/c calc'!A1",
		"+1+1":              "1+1",
		"normal banner":     "normal banner",
		"":                  "",
	}
	for in, want := range tests {
		if got := sanitizeCSVField(in); got != want {
			t.Errorf("sanitizeCSVField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteMarkdownEscapesPipes(t *testing.T) {
	report := sampleReport()
	report.Hosts[0].Results[0].Banner = "has | pipe"

	var buf bytes.Buffer
	if err := writeMarkdown(&buf, report, buildSummary(report.Summary)); err != nil {
		t.Fatalf("writeMarkdown: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "has \\| pipe") {
		t.Errorf("expected escaped pipe in output, got:\n%s", out)
	}
	if !strings.Contains(out, "CVE-2018-15473") {
		t.Error("expected CVE reference in markdown output")
	}
}

func TestWriteHTMLRendersValidDocument(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport()
	if err := writeHTML(&buf, report, buildSummary(report.Summary)); err != nil {
		t.Fatalf("writeHTML: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<html>") || !strings.Contains(out, "</html>") {
		t.Error("expected a full HTML document")
	}
	if !strings.Contains(out, "CVE-2018-15473") {
		t.Error("expected CVE reference in HTML output")
	}
	if !strings.Contains(out, "sev-medium") {
		t.Error("expected severity CSS class for Medium finding")
	}
}

func TestWriteDispatchesOnFormat(t *testing.T) {
	// Write with an empty outputPath goes to os.Stdout; instead exercise
	// the dispatcher indirectly through an unknown format, which must
	// fail fast without touching any writer.
	if err := Write(sampleReport(), "yaml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}
