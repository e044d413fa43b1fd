package models

type Status string

const (
	StatusSubmitted                 Status = "submitted"
	StatusUnderReview               Status = "under_review"
	StatusRevisionsRequested        Status = "revisions_requested"
	StatusAccepted                  Status = "accepted"
	StatusRejected                  Status = "rejected"
	StatusReviewDone                Status = "review_done"
	StatusAssignedToAreaEditor      Status = "assigned_to_area_editor"
	StatusAssignedToAssociateEditor Status = "assigned_to_associate_editor"
)

// Statuses lists the known statuses in the order the filter menu offers them.
var Statuses = []Status{
	StatusSubmitted,
	StatusUnderReview,
	StatusRevisionsRequested,
	StatusAccepted,
	StatusRejected,
	StatusReviewDone,
	StatusAssignedToAreaEditor,
	StatusAssignedToAssociateEditor,
}

var statusLabels = map[Status]string{
	StatusSubmitted:                 "Submitted",
	StatusUnderReview:               "Under Review",
	StatusRevisionsRequested:        "Revisions Requested",
	StatusAccepted:                  "Accepted",
	StatusRejected:                  "Rejected",
	StatusReviewDone:                "Review Done",
	StatusAssignedToAreaEditor:      "Assigned to Area Editor",
	StatusAssignedToAssociateEditor: "Assigned to Associate Editor",
}

var statusBadges = map[Status]string{
	StatusSubmitted:                 "info",
	StatusUnderReview:               "warning",
	StatusRevisionsRequested:        "primary",
	StatusAccepted:                  "success",
	StatusRejected:                  "danger",
	StatusReviewDone:                "secondary",
	StatusAssignedToAreaEditor:      "dark",
	StatusAssignedToAssociateEditor: "light text-dark",
}

const defaultStatusBadge = "secondary"

func (s Status) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display text, falling back to the raw value.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) Badge() string {
	if badge, ok := statusBadges[s]; ok {
		return badge
	}
	return defaultStatusBadge
}

func (s Status) Editable() bool {
	return s == StatusSubmitted
}
