// internal/application/status_test.go

package application

import "testing"

func TestViewForHeadlines(t *testing.T) {
	cases := map[Status]string{
		StatusPending:  "Application Under Review",
		StatusApproved: "Application Approved!",
		StatusRejected: "Application Not Approved",
	}
	for status, headline := range cases {
		v := ViewFor(status)
		if v.Headline != headline {
			t.Errorf("ViewFor(%s).Headline = %q, want %q", status, v.Headline, headline)
		}
		if v.Description == "" || v.Tone == "" {
			t.Errorf("ViewFor(%s) has empty description or tone", status)
		}
	}
}
