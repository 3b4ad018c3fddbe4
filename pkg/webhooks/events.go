package webhooks

import (
	"github.com/sre-norns/waymark/pkg/verify"
)

// NewVerificationEvent describes outcome of a verification.
func NewVerificationEvent(report verify.Report, reference verify.Reference, err error) VerificationEvent {
	result := VerificationEvent{
		Target:    report.Target,
		Reference: reference.String(),
		Mode:      report.Mode.String(),
		Passed:    report.Passed(),
		State:     report.State().String(),
	}

	for _, s := range report.Trace {
		result.Trace = append(result.Trace, s.String())
	}

	for _, d := range report.Diff {
		result.Differences = append(result.Differences, d.Error())
	}

	if err != nil {
		result.Error = err.Error()
	}

	return result
}
