package dispatch

import (
	"strings"
	"testing"

	"github.com/PFigs/sms-pusher/internal/contacts"
)

func TestSummarize(t *testing.T) {
	results := []SendResult{
		{Contact: contacts.Contact{Phone: "+1000"}, Status: StatusSent, Detail: "msg-1"},
		{Contact: contacts.Contact{Phone: "+1001"}, Status: StatusFailed, Detail: "gateway unavailable"},
		{Contact: contacts.Contact{Phone: "+1002"}, Status: StatusSent, Detail: "msg-2"},
	}

	s := Summarize(results, 2)
	if s.Total != 5 || s.Sent != 2 || s.Failed != 1 || s.Skipped != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Sent+s.Failed+s.Skipped != s.Total {
		t.Fatalf("counts must add up to total: %+v", s)
	}
	if len(s.Failures) != 1 || s.Failures[0].Contact.Phone != "+1001" {
		t.Fatalf("failures list wrong: %+v", s.Failures)
	}
}

func TestWriteReport(t *testing.T) {
	s := Summarize([]SendResult{
		{Contact: contacts.Contact{Phone: "+1000"}, Status: StatusSent, Detail: "msg-1"},
		{Contact: contacts.Contact{Phone: "+1001"}, Status: StatusFailed, Detail: "gateway unavailable"},
	}, 1)

	var buf strings.Builder
	WriteReport(&buf, s)
	out := buf.String()

	for _, line := range []string{
		"rows read: 3",
		"skipped:   1",
		"sent:      1",
		"failed:    1",
		"+1001: gateway unavailable",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("report missing %q:\n%s", line, out)
		}
	}
}

func TestWriteReportNoFailures(t *testing.T) {
	var buf strings.Builder
	WriteReport(&buf, Summarize([]SendResult{
		{Contact: contacts.Contact{Phone: "+1000"}, Status: StatusSent, Detail: "msg-1"},
	}, 0))

	if strings.Contains(buf.String(), "failed numbers") {
		t.Fatalf("clean run must not print a failure list:\n%s", buf.String())
	}
}
