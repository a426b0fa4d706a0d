package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/corporalyser/pkg/db"
)

// GetReportOrLatest returns the report build named by the first argument, or
// the latest build when no argument is given.
func GetReportOrLatest(c *cli.Context, database *dbpkg.DB) (dbpkg.ReportRecord, error) {
	reports, err := database.ListReports(0)
	if err != nil {
		return dbpkg.ReportRecord{}, err
	}
	if len(reports) == 0 {
		return dbpkg.ReportRecord{}, fmt.Errorf("no reports found. Run 'corporalyser report <id>' first")
	}
	if c.NArg() == 0 {
		return reports[0], nil
	}
	return findReport(reports, c.Args().First())
}

// findReport matches a numeric report_id, or else the latest build of a report key.
func findReport(reports []dbpkg.ReportRecord, arg string) (dbpkg.ReportRecord, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		for _, r := range reports {
			if r.ReportID == id {
				return r, nil
			}
		}
	}
	for _, r := range reports {
		if r.ReportKey == arg {
			return r, nil
		}
	}
	return dbpkg.ReportRecord{}, fmt.Errorf("report not found: %s", arg)
}

func ints(ns []int) string {
	if len(ns) == 0 {
		return "-"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
