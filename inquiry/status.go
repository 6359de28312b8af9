package inquiry

import "fmt"

// Status is the routing state of an inquiry. Every inquiry starts parked
// with an admin intermediary; only admin-initiated transitions move it.
type Status string

const (
	StatusPendingAdminReview Status = "pending_admin_review"
	StatusForwardedToSeller  Status = "forwarded_to_seller"
	StatusAdminHandling      Status = "admin_handling"
	StatusResponded          Status = "responded"
	StatusClosed             Status = "closed"
	StatusRejected           Status = "rejected"
)

// transitions is the closed successor table. Targets not listed for the
// current status are rejected server-side rather than accepted verbatim.
var transitions = map[Status][]Status{
	StatusPendingAdminReview: {StatusForwardedToSeller, StatusAdminHandling, StatusClosed, StatusRejected},
	StatusAdminHandling:      {StatusResponded, StatusClosed},
	StatusForwardedToSeller:  {StatusResponded, StatusClosed},
	StatusResponded:          {StatusClosed},
	StatusClosed:             nil,
	StatusRejected:           nil,
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions can leave s.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ErrInvalidTransition reports an illegal status change request.
type ErrInvalidTransition struct {
	From Status
	To   Status
}

func (e ErrInvalidTransition) Error() string {
	if !e.To.IsValid() {
		return fmt.Sprintf("inquiry: unknown status %q", e.To)
	}
	return fmt.Sprintf("inquiry: invalid transition %s -> %s", e.From, e.To)
}
