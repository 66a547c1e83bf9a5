package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kwtrends/internal/fetch"
	"kwtrends/internal/keyword"
	"kwtrends/internal/output"
	"kwtrends/internal/trends"
)

const (
	sourceAPI = "api"
	sourceRSS = "rss"
)

func (a *App) trendingCommand() *cobra.Command {
	var region, source string

	cmd := &cobra.Command{
		Use:   "trending <keyword>",
		Short: "Today's trending searches that mention a keyword",
		Long: `Fetch today's trending searches and keep those whose title contains the
keyword. The trending list is the same for every keyword, so most
keywords match nothing; it says nothing about a keyword's own volume.`,
		Example: `  kwtrends trending "pizza"
  kwtrends trending "election" --source rss --region GB`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := keywordArg(args)
			if err != nil {
				return err
			}
			if source != sourceAPI && source != sourceRSS {
				return fmt.Errorf("invalid source %q: must be %s or %s", source, sourceAPI, sourceRSS)
			}
			return a.runTrending(cmd.Context(), kw, region, source)
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "region code or country name (default from config)")
	cmd.Flags().StringVar(&source, "source", sourceAPI, "trending source: api (daily trends JSON) or rss (trending feed)")
	return cmd
}

func (a *App) runTrending(ctx context.Context, kw, region, source string) error {
	params := a.params(ctx, region, "")
	a.printer.Info("Fetching trends data for: %s", kw)

	client := a.trendsClient()
	retrier := fetch.NewRetrier(a.DefaultPolicy, a.logger)
	res := fetch.Do(ctx, retrier, "trending "+source, func(ctx context.Context) ([]trends.TrendingSearch, error) {
		if source == sourceRSS {
			return client.TrendingRSS(ctx, params.Geo)
		}
		return client.DailyTrends(ctx, params, a.Now())
	})

	var rows []keyword.TrendRow
	if res.OK() {
		rows = keyword.FilterTrending(res.Payload, kw)
		a.logger.Debug("filtered trending searches", "fetched", len(res.Payload), "matched", len(rows))
	}
	return output.Trending(a.printer, kw, rows)
}
