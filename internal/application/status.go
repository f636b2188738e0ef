// internal/application/status.go
//
// Read-only status projection.  Maps each review status to the fixed copy
// the member sees on the apply page.  The table has exactly three entries;
// a persisted record always carries one of the three statuses.

package application

// StatusView is the display tuple for one status value.
type StatusView struct {
	Headline    string
	Description string
	Tone        string // template hint: "gold", "primary", or "destructive"
}

var statusViews = map[Status]StatusView{
	StatusPending: {
		Headline:    "Application Under Review",
		Description: "Thank you for applying to join Indian Business Circle. Our team is reviewing your application and will get back to you within 3-5 business days.",
		Tone:        "gold",
	},
	StatusApproved: {
		Headline:    "Application Approved!",
		Description: "Congratulations! Your application has been approved. Welcome to the Indian Business Circle community. We will contact you shortly with next steps.",
		Tone:        "primary",
	},
	StatusRejected: {
		Headline:    "Application Not Approved",
		Description: "Unfortunately, we were unable to approve your application at this time. If you have questions, please contact our team.",
		Tone:        "destructive",
	},
}

// ViewFor returns the display tuple for s.
func ViewFor(s Status) StatusView { return statusViews[s] }
