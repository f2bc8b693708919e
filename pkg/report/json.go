package report

import (
	"encoding/json"
	"io"

	"github.com/lucchesi-sec/nscan/internal/core"
	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

type hostDTO struct {
	Host    string            `json:"host"`
	Results []core.ScanResult `json:"results"`
}

type jsonReportDTO struct {
	Summary Summary   `json:"summary"`
	Hosts   []hostDTO `json:"hosts"`
}

func writeJSON(w io.Writer, report *orchestrator.Report, summary Summary) error {
	dto := jsonReportDTO{Summary: summary}
	for _, h := range report.Hosts {
		dto.Hosts = append(dto.Hosts, hostDTO{Host: h.Host, Results: h.Results})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto)
}
