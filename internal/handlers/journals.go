package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"authorportal/internal/backend"
	"authorportal/internal/models"
	"authorportal/internal/views"
)

const journalNotFound = "Journal not found."

func (h HandlerSet) ViewJournal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.render(c, http.StatusNotFound, views.PageJournal, "Journal", "articles", views.JournalBody{Error: journalNotFound})
		return
	}
	token, _ := credentials(c)

	journal, err := h.journals.JournalDetail(c.Request.Context(), token, id)
	if err != nil {
		if expired(c, err) {
			return
		}
		status, msg := journalFailure(err)
		h.log.Error().Err(err).Int64("journal_id", id).Msg("load journal detail failed")
		h.render(c, status, views.PageJournal, "Journal", "articles", views.JournalBody{Error: msg})
		return
	}

	h.render(c, http.StatusOK, views.PageJournal, journal.Title, "articles", views.NewJournalBody(journal))
}

func (h HandlerSet) EditJournal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.render(c, http.StatusNotFound, views.PageEdit, "Edit Journal", "articles", views.EditBody{Error: journalNotFound})
		return
	}
	token, _ := credentials(c)

	body, journal, err := h.loadEdit(c.Request.Context(), token, id)
	if err != nil {
		if expired(c, err) {
			return
		}
		status, msg := journalFailure(err)
		h.log.Error().Err(err).Int64("journal_id", id).Msg("load edit form failed")
		h.render(c, status, views.PageEdit, "Edit Journal", "articles", views.EditBody{JournalID: id, Error: msg})
		return
	}

	body.Form = formFromDetail(journal)
	h.render(c, http.StatusOK, views.PageEdit, "Edit Journal", "articles", body)
}

func (h HandlerSet) UpdateJournal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.render(c, http.StatusNotFound, views.PageEdit, "Edit Journal", "articles", views.EditBody{Error: journalNotFound})
		return
	}
	token, _ := credentials(c)
	ctx := c.Request.Context()

	update := models.JournalUpdate{
		Title:          strings.TrimSpace(c.PostForm("title")),
		Abstract:       strings.TrimSpace(c.PostForm("abstract")),
		Keywords:       strings.TrimSpace(c.PostForm("keywords")),
		SubjectArea:    strings.TrimSpace(c.PostForm("subject_area")),
		JournalSection: strings.TrimSpace(c.PostForm("journal_section")),
		Language:       strings.TrimSpace(c.PostForm("language")),
	}

	body, _, err := h.loadEdit(ctx, token, id)
	if err != nil {
		if expired(c, err) {
			return
		}
		status, msg := journalFailure(err)
		h.render(c, status, views.PageEdit, "Edit Journal", "articles", views.EditBody{JournalID: id, Error: msg})
		return
	}
	body.Form = update

	if !body.Editable {
		h.render(c, http.StatusConflict, views.PageEdit, "Edit Journal", "articles", body)
		return
	}
	if body.Problems = validateUpdate(update); len(body.Problems) > 0 {
		h.render(c, http.StatusUnprocessableEntity, views.PageEdit, "Edit Journal", "articles", body)
		return
	}

	if err := h.journals.UpdateBeforeReview(ctx, token, id, update); err != nil {
		if expired(c, err) {
			return
		}
		h.log.Warn().Err(err).Int64("journal_id", id).Msg("update before review rejected")
		body.Error = backend.Message(err, "Failed to update the journal. Please try again.")
		h.render(c, http.StatusBadGateway, views.PageEdit, "Edit Journal", "articles", body)
		return
	}

	h.log.Info().Int64("journal_id", id).Msg("journal updated before review")
	c.Redirect(http.StatusSeeOther, articlesPath)
}

// loadEdit fetches the journal and both option lists concurrently.
func (h HandlerSet) loadEdit(ctx context.Context, token string, id int64) (views.EditBody, models.JournalDetail, error) {
	var (
		journal  models.JournalDetail
		areas    []models.SubjectArea
		sections []models.JournalSection
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		journal, err = h.journals.JournalDetail(gctx, token, id)
		return err
	})
	g.Go(func() (err error) {
		areas, err = h.journals.SubjectAreas(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		sections, err = h.journals.JournalSections(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return views.EditBody{}, models.JournalDetail{}, err
	}

	return views.EditBody{
		JournalID:       id,
		Title:           journal.Title,
		Status:          journal.Status,
		Editable:        journal.Status.Editable(),
		SubjectAreas:    areas,
		JournalSections: sections,
		Languages:       models.Languages,
	}, journal, nil
}

func formFromDetail(j models.JournalDetail) models.JournalUpdate {
	form := models.JournalUpdate{
		Title:    j.Title,
		Abstract: j.Abstract,
		Keywords: j.Keywords,
		Language: j.Language,
	}
	if j.SubjectArea > 0 {
		form.SubjectArea = strconv.FormatInt(j.SubjectArea, 10)
	}
	if j.JournalSection > 0 {
		form.JournalSection = strconv.FormatInt(j.JournalSection, 10)
	}
	return form
}

func validateUpdate(u models.JournalUpdate) []string {
	var problems []string
	required := []struct{ value, label string }{
		{u.Title, "Title"},
		{u.Abstract, "Abstract"},
		{u.Keywords, "Keywords"},
		{u.SubjectArea, "Subject area"},
		{u.JournalSection, "Journal section"},
		{u.Language, "Language"},
	}
	for _, f := range required {
		if f.value == "" {
			problems = append(problems, f.label+" is required.")
		}
	}
	if u.Language != "" && !models.KnownLanguage(u.Language) {
		problems = append(problems, "Language must be one of "+strings.Join(models.Languages, ", ")+".")
	}
	return problems
}

func journalFailure(err error) (int, string) {
	if backend.IsNotFound(err) {
		return http.StatusNotFound, journalNotFound
	}
	return http.StatusBadGateway, backend.Message(err, "Failed to load the journal.")
}
