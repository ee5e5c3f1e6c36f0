package dispatch

import (
	"fmt"
	"io"
)

// Summary aggregates a finished batch for the operator.
type Summary struct {
	Total   int
	Skipped int
	Sent    int
	Failed  int

	// Failures, in dispatch order.
	Failures []SendResult
}

// Summarize folds the per-contact results and the reader's skipped count.
// Total always equals Sent + Failed + Skipped.
func Summarize(results []SendResult, skipped int) Summary {
	s := Summary{Skipped: skipped, Total: len(results) + skipped}
	for _, r := range results {
		switch r.Status {
		case StatusSent:
			s.Sent++
		default:
			s.Failed++
			s.Failures = append(s.Failures, r)
		}
	}
	return s
}

// WriteReport prints the human-readable summary. Output is deterministic
// for a given input, nothing else is persisted.
func WriteReport(w io.Writer, s Summary) {
	fmt.Fprintf(w, "rows read: %d\n", s.Total)
	fmt.Fprintf(w, "skipped:   %d\n", s.Skipped)
	fmt.Fprintf(w, "sent:      %d\n", s.Sent)
	fmt.Fprintf(w, "failed:    %d\n", s.Failed)
	if len(s.Failures) == 0 {
		return
	}
	fmt.Fprintln(w, "failed numbers:")
	for _, r := range s.Failures {
		fmt.Fprintf(w, "  %s: %s\n", r.Contact.Phone, r.Detail)
	}
}
