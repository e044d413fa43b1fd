package models

import (
	"encoding/json"
	"strings"
)

type Recommendation struct {
	ID                  int64    `json:"id"`
	JournalTitle        string   `json:"journal_title"`
	EditorName          string   `json:"editor_name"`
	AreaEditorName      string   `json:"area_editor_name"`
	AssociateEditorName string   `json:"associate_editor_name"`
	Decision            string   `json:"recommendation"`
	DecisionDate        *string  `json:"decision_date"`
	SubmittedAt         *string  `json:"submitted_at"`
	IsFinalDecision     bool     `json:"is_final_decision"`
	DecisionSummary     string   `json:"decision_summary"`
	DecisionNotes       string   `json:"decision_notes"`
	Summary             string   `json:"summary"`
	Justification       string   `json:"justification"`
	OverallRating       *float64 `json:"overall_rating"`
	PublicComments      string   `json:"public_comments_to_author"`

	// Raw is the record exactly as the backend sent it.
	Raw json.RawMessage `json:"-"`
}

func (r *Recommendation) UnmarshalJSON(b []byte) error {
	type plain Recommendation
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Recommendation(p)
	r.Raw = append(json.RawMessage(nil), b...)
	return nil
}

type Outcome string

const (
	OutcomeAccept  Outcome = "accept"
	OutcomeReject  Outcome = "reject"
	OutcomePending Outcome = "pending"
)

func (r Recommendation) Outcome() Outcome {
	switch strings.ToLower(r.Decision) {
	case "accept":
		return OutcomeAccept
	case "reject":
		return OutcomeReject
	default:
		return OutcomePending
	}
}

func (o Outcome) Label() string {
	switch o {
	case OutcomeAccept:
		return "Accepted"
	case OutcomeReject:
		return "Rejected"
	default:
		return "Pending"
	}
}

func (o Outcome) Tone() string {
	switch o {
	case OutcomeAccept:
		return "success"
	case OutcomeReject:
		return "danger"
	default:
		return "warning"
	}
}

func (o Outcome) Border() string {
	switch o {
	case OutcomeAccept:
		return "#4caf50"
	case OutcomeReject:
		return "#f44336"
	default:
		return "#ff9800"
	}
}
