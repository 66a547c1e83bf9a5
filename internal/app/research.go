package app

import (
	"context"

	"github.com/spf13/cobra"

	"kwtrends/internal/fetch"
	"kwtrends/internal/output"
	"kwtrends/internal/trends"
)

func (a *App) researchCommand() *cobra.Command {
	var region, timeframe, report string

	cmd := &cobra.Command{
		Use:   "research <keyword>",
		Short: "Interest over time, related queries and regional interest",
		Long: `Research a keyword on Google Trends: related queries (top and rising),
the ten regions with the highest interest and a summary of interest over
time. Region and timeframe default to the config file.`,
		Example: `  kwtrends research "pizza"
  kwtrends research "pizza" --region Canada --timeframe "today 3-m"
  kwtrends research "pizza" --report pizza.docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := keywordArg(args)
			if err != nil {
				return err
			}
			return a.runResearch(cmd.Context(), kw, region, timeframe, report)
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "region code or country name (default from config)")
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "", `timeframe, e.g. "today 12-m" (default from config)`)
	cmd.Flags().StringVar(&report, "report", "", "also write the results to this .docx file")
	return cmd
}

func (a *App) runResearch(ctx context.Context, kw, region, timeframe, report string) error {
	params := a.params(ctx, region, timeframe)
	a.logger.Info("starting keyword research", "keyword", kw, "geo", params.Geo, "timeframe", params.Timeframe)

	client := a.trendsClient()
	retrier := fetch.NewRetrier(a.ResearchPolicy, a.logger)
	res := fetch.Do(ctx, retrier, "trends research", func(ctx context.Context) (trends.ResearchData, error) {
		return client.Research(ctx, kw, params)
	})
	if !res.OK() {
		return output.Research(a.printer, kw, nil)
	}

	if err := output.Research(a.printer, kw, &res.Payload); err != nil {
		return err
	}
	return a.saveReport(report, func(path string) error {
		return output.WriteResearchReport(path, res.Payload, a.Now())
	})
}
