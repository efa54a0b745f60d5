package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/muesli/termenv"
)

var statusColors = map[domain.StepStatus]string{
	domain.StepApplied: "#34d399",
	domain.StepSkipped: "#a1a1aa",
	domain.StepHalted:  "#fbbf24",
	domain.StepFailed:  "#f87171",
}

// PrintReport writes one line per step followed by the submitted transactions.
func PrintReport(w io.Writer, r domain.Report) {
	out := termenv.NewOutput(w)
	Section(w, "Run report")
	fmt.Fprintf(w, "run      %s\nissuer   %s\nreceiver %s\n\n", r.RunID, r.Issuer, r.Receiver)

	for _, s := range r.Steps {
		status := out.String(fmt.Sprintf("%-8s", s.Status)).Foreground(out.Profile.Color(statusColors[s.Status]))
		line := fmt.Sprintf("  %s %-22s", status, s.Name)
		if s.Detail != "" {
			line += " " + s.Detail
		}
		fmt.Fprintln(w, line)
	}

	if txs := r.Submitted(); len(txs) > 0 {
		fmt.Fprintln(w)
		for _, tx := range txs {
			fmt.Fprintf(w, "  %-14s %-22s %s\n", tx.TxType, tx.Code, tx.Hash)
		}
	}
	if r.Halted {
		fmt.Fprintf(w, "\nhalted: %s\n", r.Reason)
	}
}
