package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kwtrends/internal/fetch"
	"kwtrends/internal/output"
	"kwtrends/internal/trends"
)

func (a *App) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [keyword]",
		Short: "Explore a keyword over the last 90 days",
		Long: `Explore a keyword worldwide over the last 90 days and show the
geographic restriction Google Trends reports for it. Prompts for the
keyword when none is given.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := keywordArg(args)
			if len(args) == 0 {
				kw, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Enter a keyword to research: ")
			}
			if err != nil {
				return err
			}
			return a.runExplore(cmd.Context(), kw)
		},
	}
}

func prompt(in io.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading keyword: %w", err)
	}
	kw := strings.TrimSpace(line)
	if kw == "" {
		return "", ErrEmptyKeyword
	}
	return kw, nil
}

func (a *App) runExplore(ctx context.Context, kw string) error {
	a.printer.Print("\nResearching keyword: %s", kw)

	params := trends.Params{HL: a.cfg.Language}
	client := a.trendsClient()
	retrier := fetch.NewRetrier(a.DefaultPolicy, a.logger)
	res := fetch.Do(ctx, retrier, "trends explore", func(ctx context.Context) (trends.ExploreData, error) {
		return client.ExploreWindow(ctx, kw, params, a.Now())
	})
	if !res.OK() {
		return output.Explore(a.printer, nil)
	}
	return output.Explore(a.printer, &res.Payload)
}
