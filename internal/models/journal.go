package models

import "strings"

type JournalDetail struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Abstract           string  `json:"abstract"`
	Keywords           string  `json:"keywords"`
	SubjectArea        int64   `json:"subject_area"`
	JournalSection     int64   `json:"journal_section"`
	Language           string  `json:"language"`
	Status             Status  `json:"status"`
	ManuscriptFile     string  `json:"manuscript_file"`
	SubjectAreaName    *string `json:"subject_area_name"`
	JournalSectionName *string `json:"journal_section_name"`
	SubmissionDate     *string `json:"submission_date"`
}

// ManuscriptName is the last path segment of the manuscript file URL.
func (j JournalDetail) ManuscriptName() string {
	if j.ManuscriptFile == "" {
		return ""
	}
	parts := strings.Split(j.ManuscriptFile, "/")
	return parts[len(parts)-1]
}

func (j JournalDetail) SubjectAreaLabel() string {
	return orGeneral(j.SubjectAreaName)
}

func (j JournalDetail) JournalSectionLabel() string {
	return orGeneral(j.JournalSectionName)
}

type SubjectArea struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type JournalSection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var Languages = []string{"English", "Spanish", "French", "German", "Other"}

func KnownLanguage(language string) bool {
	for _, l := range Languages {
		if l == language {
			return true
		}
	}
	return false
}

// JournalUpdate carries the editable, non-file fields of a submission.
type JournalUpdate struct {
	Title          string
	Abstract       string
	Keywords       string
	SubjectArea    string
	JournalSection string
	Language       string
}
