package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

// maxFieldLength caps a CSV field so a malicious banner can't balloon the
// report; it mirrors the guard the teacher's CSV exporter applies.
const maxFieldLength = 256

// sanitizeCSVField strips leading formula characters (=, +, -, @) so a
// banner or CVE description can't trigger formula injection when the
// report is opened in a spreadsheet application, and caps its length.
func sanitizeCSVField(field string) string {
	if field == "" {
		return field
	}

	field = strings.TrimSpace(field)
	field = strings.TrimLeft(field, "=+-@")

	if len(field) > maxFieldLength {
		field = field[:maxFieldLength]
	}

	if len(field) > 0 && (field[0] == '\t' || field[0] == '\r' || field[0] == '\n') {
		field = "'" + field
	}

	return field
}

func writeCSV(w io.Writer, report *orchestrator.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"host", "port", "is_open", "service", "banner", "latency_ms", "vulnerabilities"}); err != nil {
		return err
	}

	for _, h := range report.Hosts {
		for _, r := range h.Results {
			var cves []string
			for _, v := range r.Vulnerabilities {
				cves = append(cves, v.CVE)
			}

			record := []string{
				sanitizeCSVField(h.Host),
				strconv.Itoa(r.Port),
				strconv.FormatBool(r.IsOpen),
				sanitizeCSVField(r.Service),
				sanitizeCSVField(r.Banner),
				fmt.Sprintf("%d", r.ResponseTimeMs),
				sanitizeCSVField(strings.Join(cves, ";")),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
