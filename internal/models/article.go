package models

const GeneralLabel = "General"

type Article struct {
	ID                            int64    `json:"id"`
	Title                         string   `json:"title"`
	Status                        Status   `json:"status"`
	SubmissionDate                *string  `json:"submission_date"`
	SubjectAreaName               *string  `json:"subject_area_name"`
	JournalSectionName            *string  `json:"journal_section_name"`
	ChiefEditorRecommendation     Presence `json:"chief_editor_recommendation"`
	AreaEditorRecommendation      Presence `json:"area_editor_recommendation"`
	AssociateEditorRecommendation Presence `json:"associate_editor_recommendation"`
}

// SubjectArea returns the subject area name and whether the record carries one.
// Empty names count as missing.
func (a Article) SubjectArea() (string, bool) {
	return optional(a.SubjectAreaName)
}

func (a Article) JournalSection() (string, bool) {
	return optional(a.JournalSectionName)
}

func (a Article) SubjectAreaLabel() string {
	return orGeneral(a.SubjectAreaName)
}

func (a Article) JournalSectionLabel() string {
	return orGeneral(a.JournalSectionName)
}

func optional(v *string) (string, bool) {
	if v == nil || *v == "" {
		return "", false
	}
	return *v, true
}

func orGeneral(v *string) string {
	if s, ok := optional(v); ok {
		return s
	}
	return GeneralLabel
}
