package app

import (
	"context"

	"github.com/spf13/cobra"

	"kwtrends/internal/fetch"
	"kwtrends/internal/keyword"
	"kwtrends/internal/output"
	"kwtrends/internal/suggest"
)

func (a *App) suggestCommand() *cobra.Command {
	var language, report string

	cmd := &cobra.Command{
		Use:   "suggest <keyword>",
		Short: "Autocomplete suggestions with volume and competition guesses",
		Long: `List Google autocomplete suggestions for a keyword. Volume is guessed
from the suggestion's position and competition from its word count; both
are rough heuristics, not measurements.`,
		Example: `  kwtrends suggest "pizza"
  kwtrends suggest "pizza" --language de --report pizza.docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := keywordArg(args)
			if err != nil {
				return err
			}
			return a.runSuggest(cmd.Context(), kw, language, report)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "suggestion language (default from config)")
	cmd.Flags().StringVar(&report, "report", "", "also write the results to this .docx file")
	return cmd
}

func (a *App) runSuggest(ctx context.Context, kw, language, report string) error {
	if language == "" {
		language = a.cfg.Language
	}
	a.printer.Info("Fetching suggestions for: %s", kw)

	client := suggest.NewClient()
	client.URL = a.Endpoints.Suggest
	retrier := fetch.NewRetrier(a.DefaultPolicy, a.logger)
	res := fetch.Do(ctx, retrier, "autocomplete", func(ctx context.Context) ([]string, error) {
		return client.Suggestions(ctx, kw, language)
	})

	var items []keyword.Suggestion
	if res.OK() {
		items = keyword.LabelSuggestions(res.Payload)
	}
	if err := output.Suggestions(a.printer, kw, items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return a.saveReport(report, func(path string) error {
		return output.WriteSuggestionsReport(path, kw, items, a.Now())
	})
}
