package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/corporalyser/internal/analyze"
	dbactions "github.com/dtnitsch/corporalyser/internal/db"
	"github.com/dtnitsch/corporalyser/internal/export"
	"github.com/dtnitsch/corporalyser/internal/fetch"
	"github.com/dtnitsch/corporalyser/internal/report"
	"github.com/dtnitsch/corporalyser/pkg/artifact_manager"
	"github.com/dtnitsch/corporalyser/pkg/help"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	forceFlag := func(usage string) cli.Flag {
		return &cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: usage}
	}
	workersFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "Number of concurrent workers"}
	}

	return &cli.App{
		Name:  "corporalyser",
		Usage: "Count character n-grams, skip-grams and words in text corpora and combine them into weighted reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "working-directory",
				Aliases: []string{"w"},
				Value:   artifact_manager.DefaultBaseDir,
				EnvVars: []string{"CORPORALYSER_DIR"},
				Usage:   "Directory holding corpora, analyses, recipes, reports and the catalog",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Download sentence corpora",
				Subcommands: []*cli.Command{
					{
						Name:      "wortschatz",
						Usage:     "Download Leipzig Wortschatz corpora by id",
						ArgsUsage: "<id>...",
						Flags: []cli.Flag{
							forceFlag("Download even if the sentence file exists"),
							&cli.DurationFlag{Name: "max-age", Usage: "Re-download sentence files older than this (0 keeps them forever)"},
							workersFlag(),
						},
						Action: fetch.WortschatzAction,
					},
					{
						Name:  "web",
						Usage: "Scrape the prose of web pages into one corpus",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "id", Required: true, Usage: "Corpus id to store the sentences under"},
							&cli.StringFlag{Name: "urls", Required: true, Usage: "Comma-separated list of URLs"},
							forceFlag("Fetch even if the corpus exists, bypassing the page cache"),
							&cli.DurationFlag{Name: "max-age", Value: 24 * time.Hour, Usage: "Reuse cached pages younger than this"},
							workersFlag(),
						},
						Action: fetch.WebAction,
					},
				},
			},
			{
				Name:      "analyse",
				Aliases:   []string{"analyze"},
				Usage:     "Count n-grams, skip-grams and words of fetched corpora",
				ArgsUsage: "<id>...",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "ngram-n", Aliases: []string{"n"}, Value: 3, Usage: "Count n-grams of length 1..n"},
					&cli.IntFlag{Name: "skipgram-n", Aliases: []string{"k"}, Value: 3, Usage: "Count skip-grams with skip 1..k"},
					workersFlag(),
					forceFlag("Recount even if the sentence file is unchanged"),
					&cli.BoolFlag{Name: "keep-case", Usage: "Do not lower-case sentences"},
					&cli.BoolFlag{Name: "detect-language", Usage: "Record the detected language of each corpus"},
					&cli.BoolFlag{Name: "show-progress", Usage: "Log progress every 10%"},
				},
				Action: analyze.AnalyseAction,
			},
			{
				Name:      "report",
				Usage:     "Build reports from recipes",
				ArgsUsage: "<recipe-id>...",
				Action:    report.ReportAction,
			},
			{
				Name:  "export",
				Usage: "Export a report for layout tools",
				Subcommands: []*cli.Command{
					{
						Name:      "oxeylyzer",
						Usage:     "Write an oxeylyzer language file",
						ArgsUsage: "<report-id>",
						Flags:     []cli.Flag{forceFlag("Overwrite an existing export")},
						Action:    export.OxeylyzerAction,
					},
					{
						Name:      "flat",
						Usage:     "Write every table of a report",
						ArgsUsage: "<report-id>",
						Flags: []cli.Flag{
							forceFlag("Overwrite an existing export"),
							&cli.BoolFlag{Name: "counts", Usage: "Export raw counts instead of frequencies"},
						},
						Action: export.FlatAction,
					},
				},
			},
			{
				Name:  "db",
				Usage: "Inspect the catalog",
				Subcommands: []*cli.Command{
					{
						Name:   "analyses",
						Usage:  "List recorded analyses",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum rows (0 = all)"}},
						Action: dbactions.AnalysesAction,
					},
					{
						Name:   "reports",
						Usage:  "List recorded report builds",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum rows (0 = all)"}},
						Action: dbactions.ReportsAction,
					},
					{
						Name:      "report",
						Usage:     "Show the sources of a report build (latest if omitted)",
						ArgsUsage: "[report-id|key]",
						Action:    dbactions.ReportAction,
					},
					{
						Name:   "init",
						Usage:  "Create the catalog schema",
						Action: dbactions.InitAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print a YAML quick start",
				Action: func(c *cli.Context) error {
					fmt.Print(help.QuickstartYAML)
					return nil
				},
			},
		},
	}
}
