package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/corporalyser/internal/common"
	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/db"
	reportpkg "github.com/dtnitsch/corporalyser/pkg/report"
)

func ReportAction(c *cli.Context) error {
	ids, err := common.CorpusIDs(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ws, err := common.OpenWorkspace(c, 0)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer ws.Close()

	// One resolver per invocation so shared nested reports are built once.
	runID := common.NewRunID()
	resolver := reportpkg.NewStoreResolver(ws.Manager, runID)

	failed := 0
	for _, id := range ids {
		rep, path, err := build(ws, resolver, id)
		if err != nil {
			logFailure(ws, id, err)
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Printf("Built report %s (%s) from %d sources, %s words: %s\n",
			id, rep.Metadata.Name, len(rep.Sources),
			humanize.Comma(rep.AnalysisCounts.Words.Sum()), path)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d reports failed", failed, len(ids)), 1)
	}
	return nil
}

// build aggregates, stores and catalogs one report.
func build(ws *common.Workspace, resolver *reportpkg.StoreResolver, id string) (*models.Report, string, error) {
	ws.Logger.Info("Building report", "report", id)
	rep, err := resolver.Build(id)
	if err != nil {
		return nil, "", err
	}

	path, data, err := ws.Manager.WriteReport(rep)
	if err != nil {
		return nil, "", err
	}

	_, err = ws.DB.RecordReport(db.ReportRecord{
		ReportKey:    rep.Metadata.ID,
		RunID:        rep.Metadata.RunID,
		Name:         rep.Metadata.Name,
		Version:      rep.Metadata.Version,
		ArtifactPath: path,
		ContentHash:  common.ContentHash(data),
	}, rep.Sources)
	if err != nil {
		return nil, "", err
	}

	ws.Logger.Info("Stored report", "report", id, "path", path, "run_id", rep.Metadata.RunID)
	return rep, path, nil
}

func logFailure(ws *common.Workspace, id string, err error) {
	var (
		srcErr    *reportpkg.SourceError
		cycleErr  *reportpkg.CycleError
		weightErr *reportpkg.WeightError
	)
	switch {
	case errors.As(err, &cycleErr):
		ws.Logger.Error("Cyclic report reference", "report", id, "chain", cycleErr.Chain)
	case errors.As(err, &srcErr):
		ws.Logger.Error("Report source not found", "report", id, "source", srcErr.ID, "type", srcErr.Type, "weight", srcErr.Weight)
	case errors.As(err, &weightErr):
		ws.Logger.Error("Invalid report weights", "report", id, "weights", weightErr.Weights, "reason", weightErr.Reason)
	default:
		ws.Logger.Error("Report failed", "report", id, "error", err)
	}
}
