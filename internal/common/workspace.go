package common

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/corporalyser/pkg/artifact_manager"
	"github.com/dtnitsch/corporalyser/pkg/db"
)

// NewLogger returns the JSON stderr logger shared by every command.
// Quiet mode keeps errors only.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// Workspace is the artifact tree and catalog under the working directory.
type Workspace struct {
	Logger  *slog.Logger
	Manager *artifact_manager.Manager
	DB      *db.DB
}

// OpenWorkspace prepares the working directory named by the global
// --working-directory flag and opens its catalog.
func OpenWorkspace(c *cli.Context, maxAge time.Duration) (*Workspace, error) {
	logger := NewLogger(c.Bool("quiet"))

	manager, err := artifact_manager.NewManager(c.String("working-directory"), maxAge)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact manager: %w", err)
	}

	database, err := db.Open(manager.BaseDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Workspace{Logger: logger, Manager: manager, DB: database}, nil
}

// Close releases the catalog.
func (w *Workspace) Close() error {
	return w.DB.Close()
}

// CorpusIDs returns the positional arguments after validating each as an id.
func CorpusIDs(c *cli.Context) ([]string, error) {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids given. Usage: corporalyser %s <id>...", c.Command.Name)
	}
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}
