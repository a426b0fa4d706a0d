package db

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/corporalyser/internal/common"
	dbpkg "github.com/dtnitsch/corporalyser/pkg/db"
)

func openCatalog(c *cli.Context) (*common.Workspace, error) {
	ws, err := common.OpenWorkspace(c, 0)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	return ws, nil
}

func AnalysesAction(c *cli.Context) error {
	ws, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	analyses, err := ws.DB.ListAnalyses(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}
	printAnalyses(os.Stdout, analyses)
	return nil
}

func ReportsAction(c *cli.Context) error {
	ws, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	reports, err := ws.DB.ListReports(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	printReports(os.Stdout, reports)
	return nil
}

// ReportAction shows the sources of one cataloged report build.
func ReportAction(c *cli.Context) error {
	ws, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	record, err := GetReportOrLatest(c, ws.DB)
	if err != nil {
		return err
	}
	sources, err := ws.DB.GetReportSources(record.ReportID)
	if err != nil {
		return err
	}

	fmt.Printf("Report %d: %s\n", record.ReportID, record.ReportKey)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Name:      %s\n", record.Name)
	fmt.Printf("Version:   %s\n", record.Version)
	fmt.Printf("Run:       %s\n", record.RunID)
	fmt.Printf("Created:   %s (%s)\n", record.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(record.CreatedAt))
	fmt.Printf("Artifact:  %s\n", record.ArtifactPath)
	fmt.Printf("\nSources (%d):\n", len(sources))
	fmt.Println(strings.Repeat("-", 60))
	for i, s := range sources {
		var flags []string
		if s.StripWhitespace {
			flags = append(flags, "whitespace")
		}
		if s.StripPunctuation {
			flags = append(flags, "punctuation")
		}
		if s.StripNumbers {
			flags = append(flags, "numbers")
		}
		if s.StripNonLatin {
			flags = append(flags, "nonlatin")
		}
		fmt.Printf("%2d. %-40s weight %-8g strip [%s]\n", i+1, s.String(), s.Weight, strings.Join(flags, ","))
	}
	return nil
}

func InitAction(c *cli.Context) error {
	ws, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.DB.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	fmt.Printf("Catalog ready at %s\n", ws.DB.Path())
	return nil
}

func printAnalyses(w io.Writer, analyses []dbpkg.AnalysisRecord) {
	if len(analyses) == 0 {
		fmt.Fprintln(w, "No analyses found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-30s %-12s %-6s %-8s %-8s %-10s\n",
		"ID", "Created", "Corpus", "Sentences", "Lang", "N", "K", "Duration")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, a := range analyses {
		fmt.Fprintf(w, "%-6d %-20s %-30s %-12s %-6s %-8s %-8s %-10s\n",
			a.AnalysisID,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
			a.CorpusID,
			humanize.Comma(int64(a.SentenceCount)),
			orDash(a.Language),
			ints(a.Ngrams),
			ints(a.Skipgrams),
			a.Duration,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d analyses\n", len(analyses))
}

func printReports(w io.Writer, reports []dbpkg.ReportRecord) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-24s %-10s %-8s %-30s\n",
		"ID", "Created", "Report", "Version", "Sources", "Name")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range reports {
		fmt.Fprintf(w, "%-6d %-20s %-24s %-10s %-8d %-30s\n",
			r.ReportID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.ReportKey,
			orDash(r.Version),
			r.SourceCount,
			r.Name,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d reports\n", len(reports))
	fmt.Fprintf(w, "\nTip: Use 'corporalyser db report <id>' to see its sources\n")
}
