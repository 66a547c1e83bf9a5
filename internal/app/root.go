// Package app wires the kwtrends command tree: flags, configuration,
// logging and the fetch pipelines behind each subcommand.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"kwtrends/internal/config"
	"kwtrends/internal/fetch"
	"kwtrends/internal/geo"
	"kwtrends/internal/output"
	"kwtrends/internal/suggest"
	"kwtrends/internal/trends"
)

// Endpoints are the upstream base URLs.
type Endpoints struct {
	Trends        string
	Suggest       string
	RestCountries string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Trends:        trends.DefaultBaseURL,
		Suggest:       suggest.DefaultURL,
		RestCountries: geo.DefaultRestCountriesURL,
	}
}

// ErrEmptyKeyword is returned when the keyword is blank after trimming.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

type App struct {
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Version string

	Endpoints      Endpoints
	ResearchPolicy fetch.Policy
	DefaultPolicy  fetch.Policy
	// Pause is slept between the trends widget calls of one research attempt.
	Pause time.Duration
	Now   func() time.Time

	cfgFile string
	verbose bool
	color   string

	cfg     config.Config
	logger  *slog.Logger
	printer *output.Printer
}

func New(version string) *App {
	return &App{
		In:             os.Stdin,
		Out:            os.Stdout,
		Err:            os.Stderr,
		Version:        version,
		Endpoints:      DefaultEndpoints(),
		ResearchPolicy: fetch.ResearchPolicy(),
		DefaultPolicy:  fetch.DefaultPolicy(),
		Pause:          2 * time.Second,
		Now:            time.Now,
	}
}

// Run executes the command tree with args.
func Run(ctx context.Context, version string, args []string) error {
	root := New(version).RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "kwtrends",
		Short: "Keyword research from Google Trends and autocomplete",
		Long: `kwtrends looks up a keyword on Google Trends and Google autocomplete
and prints the results as tables.

Example usage:
  kwtrends research "pizza" --region US-NY   # interest, related queries, regions
  kwtrends suggest "pizza"                   # autocomplete with volume guesses
  kwtrends trending "pizza" --source rss     # today's trending searches
  kwtrends explore                           # prompts for a keyword`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", config.DefaultPath, "JSON config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.color, "color", "auto", "color output: auto, always or never")

	root.AddCommand(
		a.researchCommand(),
		a.suggestCommand(),
		a.trendingCommand(),
		a.exploreCommand(),
		a.versionCommand(),
	)
	return root
}

// setup builds the logger and printer and loads the configuration.
func (a *App) setup() error {
	mode, err := output.ParseColorMode(a.color)
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if a.verbose {
		logLevel = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.Err, &slog.HandlerOptions{
		Level: logLevel,
	}))
	a.printer = output.NewPrinter(a.Out, a.Err, output.ResolveColors(mode, isTerminal(a.Out)))

	a.cfg = config.Load(a.cfgFile, a.logger)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func keywordArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrEmptyKeyword
	}
	kw := strings.TrimSpace(strings.Join(args, " "))
	if kw == "" {
		return "", ErrEmptyKeyword
	}
	return kw, nil
}

func (a *App) trendsClient() *trends.Client {
	c := trends.NewClient(a.logger)
	c.BaseURL = a.Endpoints.Trends
	c.Pause = a.Pause
	return c
}

func (a *App) region(ctx context.Context, flag string) string {
	input := a.cfg.Region
	if flag != "" {
		input = flag
	}
	rest := geo.NewRestCountriesResolver()
	rest.BaseURL = a.Endpoints.RestCountries
	return geo.ResolveRegion(ctx, geo.ChainResolver{geo.NewAliasResolver(), rest}, input, a.logger)
}

func (a *App) params(ctx context.Context, region, timeframe string) trends.Params {
	p := trends.Params{
		HL:        a.cfg.Language,
		Geo:       a.region(ctx, region),
		Timeframe: a.cfg.Timeframe,
		Category:  a.cfg.Category,
	}
	if timeframe != "" {
		p.Timeframe = timeframe
	}
	return p
}

func (a *App) saveReport(path string, write func(string) error) error {
	if path == "" {
		return nil
	}
	if err := write(path); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	a.printer.Success("Report saved to %s", path)
	return nil
}
