package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/voco/internal/domain"
)

func renderDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
	}
}

func renderHistory(out io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No history entries.")
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  [%s]  %s\n", humanize.Time(rec.Timestamp), rec.FinalState, rec.Command)
		fmt.Fprintf(out, "  heard: %s\n", rec.Utterance)
		if rec.Summary != "" {
			fmt.Fprintf(out, "  summary: %s\n", rec.Summary)
		}
		if rec.FinalState == domain.StateExecuted {
			fmt.Fprintf(out, "  exit code %d in %s\n", rec.ExitCode, rec.Duration)
		}
		if rec.RiskLevel != "" && rec.RiskLevel != domain.RiskSafe {
			fmt.Fprintf(out, "  risk: %s\n", rec.RiskLevel)
		}
	}
}

func renderRiskAssessment(out io.Writer, command string, assessment domain.RiskAssessment) {
	fmt.Fprintf(out, "Command: %s\n", command)
	fmt.Fprintf(out, "Risk: %s\n", strings.ToUpper(string(assessment.Level)))
	for _, reason := range assessment.Reasons {
		fmt.Fprintf(out, " - %s\n", reason)
	}
	if !assessment.Notable() {
		fmt.Fprintln(out, "No guardrail rules matched.")
	}
}
