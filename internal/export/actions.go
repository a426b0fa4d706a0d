package export

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/corporalyser/internal/common"
	exportpkg "github.com/dtnitsch/corporalyser/pkg/export"
)

func OxeylyzerAction(c *cli.Context) error {
	return run(c, exportpkg.KindOxeylyzer, func(ws *common.Workspace, id string) (any, error) {
		rep, err := ws.Manager.LoadReport(id)
		if err != nil {
			return nil, err
		}
		return exportpkg.Oxeylyzer(rep)
	})
}

func FlatAction(c *cli.Context) error {
	counts := c.Bool("counts")
	return run(c, exportpkg.KindFlat, func(ws *common.Workspace, id string) (any, error) {
		rep, err := ws.Manager.LoadReport(id)
		if err != nil {
			return nil, err
		}
		return exportpkg.Flat(rep, counts)
	})
}

type projector func(ws *common.Workspace, id string) (any, error)

func run(c *cli.Context, kind string, project projector) error {
	if c.NArg() != 1 {
		return cli.Exit(fmt.Sprintf("Usage: corporalyser export %s <report-id>", kind), 1)
	}
	id := c.Args().First()
	if err := common.ValidateID(id); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ws, err := common.OpenWorkspace(c, 0)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer ws.Close()

	path, written, err := exportReport(ws, kind, id, c.Bool("force"), project)
	if err != nil {
		ws.Logger.Error("Export failed", "kind", kind, "report", id, "error", err)
		return cli.Exit(err.Error(), 1)
	}
	if !written {
		fmt.Printf("Export %s already exists. Use --force to overwrite.\n", path)
		return nil
	}
	fmt.Printf("Exported %s as %s: %s\n", id, kind, path)
	return nil
}

func exportReport(ws *common.Workspace, kind, id string, force bool, project projector) (string, bool, error) {
	data, err := project(ws, id)
	if err != nil {
		return "", false, fmt.Errorf("failed to export report %q: %w", id, err)
	}
	path, written, err := ws.Manager.WriteExport(kind, id, data, force)
	if err != nil {
		return "", false, err
	}
	if written {
		ws.Logger.Info("Wrote export", "kind", kind, "report", id, "path", path)
	}
	return path, written, nil
}
