package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"authorportal/internal/articles"
	"authorportal/internal/backend"
	"authorportal/internal/config"
	"authorportal/internal/models"
)

func articlesCmd(load func() (*config.AppConfig, error)) *cobra.Command {
	var (
		token  string
		state  = articles.DefaultFilterState()
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "articles",
		Short: "List the submitted articles of the author owning a token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client := backend.NewClient(cfg.Backend, zerolog.Nop(), nil)
			view, err := fetchArticles(ctx, client, token, state)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return printArticles(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "author bearer token")
	cmd.Flags().StringVarP(&state.SearchTerm, "query", "q", "", "search by ID or title")
	cmd.Flags().StringVar(&state.Status, "status", articles.All, "status filter")
	cmd.Flags().StringVar(&state.SubjectArea, "subject-area", articles.All, "subject area filter")
	cmd.Flags().StringVar(&state.JournalSection, "journal-section", articles.All, "journal section filter")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view model as JSON")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

type articleSource interface {
	ValidateToken(ctx context.Context, token string) (models.Author, error)
	ArticlesByAuthor(ctx context.Context, token string, authorID int64) ([]models.Article, error)
}

func fetchArticles(ctx context.Context, client articleSource, token string, state articles.FilterState) (articles.View, error) {
	author, err := client.ValidateToken(ctx, token)
	if err != nil {
		return articles.View{}, fmt.Errorf("validate token: %w", err)
	}
	records, err := client.ArticlesByAuthor(ctx, token, author.ID)
	if err != nil {
		return articles.View{}, fmt.Errorf("load articles: %w", err)
	}
	return articles.Build(records, state), nil
}

func printArticles(out io.Writer, view articles.View) error {
	if view.EmptyMessage != "" {
		_, err := fmt.Fprintln(out, view.EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBMITTED\tSECTION\tTITLE\tSUBJECT AREA\tSTATUS")
	for _, row := range view.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", row.ID, row.Submitted, row.JournalSection, row.Title, row.SubjectArea, row.StatusLabel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\n%d of %d articles | subject areas: %s | journal sections: %s\n",
		len(view.Rows), view.Total, view.SubjectAreaSummary, view.JournalSectionSummary)
	return err
}
