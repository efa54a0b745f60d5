package tui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/tokenforge/internal/presentation/tui"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintReport(&buf, domain.Report{
		RunID:  "run-1",
		Issuer: "rIssuer",
		Steps: []domain.StepRecord{
			{Name: "trustline", Status: domain.StepSkipped, Detail: "trust line already exists"},
			{Name: "issue", Status: domain.StepApplied, Results: []domain.SubmitResult{
				{TxType: domain.TxPayment, Code: domain.ResultSuccess, Hash: "ABC"},
			}},
		},
		Halted: true,
		Reason: "issuer already finalized",
	})

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "trust line already exists")
	assert.Contains(t, out, "tesSUCCESS")
	assert.Contains(t, out, "ABC")
	assert.Contains(t, out, "halted: issuer already finalized")
}

func TestPrintNotes_FallsBackToMarkdown(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintNotes(&buf, func(string) (string, error) { return "", errors.New("no renderer") })

	assert.Contains(t, buf.String(), "Default Ripple")
	assert.Contains(t, buf.String(), "Authorized Trust Lines")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
