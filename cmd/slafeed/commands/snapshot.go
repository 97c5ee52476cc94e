package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slafeed/internal/feed"
	"github.com/slok/slafeed/internal/log"
	"github.com/slok/slafeed/internal/model"
	"github.com/slok/slafeed/internal/session"
	storageio "github.com/slok/slafeed/internal/storage/io"
)

const (
	snapshotFormatJSON     = "json"
	snapshotFormatYAML     = "yaml"
	snapshotFormatTemplate = "template"
)

// seededSnapshotTime is the refresh time of the snapshots generated with a seed.
var seededSnapshotTime = time.Date(2024, time.January, 22, 0, 0, 0, 0, time.UTC)

type snapshotCommand struct {
	out     string
	format  string
	tplPath string
	seed    int64
}

// NewSnapshotCommand returns the snapshot command.
func NewSnapshotCommand(app *kingpin.Application) Command {
	c := &snapshotCommand{}
	cmd := app.Command("snapshot", "Generates a full snapshot of the dashboard datasets.")
	cmd.Flag("out", "Output file, stdout if '-'.").Short('o').Default("-").StringVar(&c.out)
	cmd.Flag("format", "Output format.").Short('f').Default(snapshotFormatJSON).EnumVar(&c.format, snapshotFormatJSON, snapshotFormatYAML, snapshotFormatTemplate)
	cmd.Flag("template", "Go template file used to render the snapshot with the template format, sprout functions are available.").Short('t').StringVar(&c.tplPath)
	cmd.Flag("seed", "Random seed for reproducible snapshots, random if 0.").Int64Var(&c.seed)

	return c
}

func (s snapshotCommand) Name() string { return "snapshot" }
func (s snapshotCommand) Run(ctx context.Context, config RootConfig) error {
	logger := config.Logger.WithValues(log.Kv{"command": s.Name(), "format": s.format})

	var tplData []byte
	if s.format == snapshotFormatTemplate {
		if s.tplPath == "" {
			return fmt.Errorf("template file is required with the template format")
		}
		var err error
		tplData, err = os.ReadFile(s.tplPath)
		if err != nil {
			return fmt.Errorf("could not read template file: %w", err)
		}
	}

	profile, err := loadProfile(ctx, logger, config.ProfilePath)
	if err != nil {
		return err
	}

	// Seeded snapshots are fully reproducible, including the refresh time.
	var randSource rand.Source
	var timeNowFunc func() time.Time
	if s.seed != 0 {
		randSource = rand.NewSource(s.seed)
		timeNowFunc = func() time.Time { return seededSnapshotTime }
	}

	gen, err := feed.NewGenerator(feed.GeneratorConfig{
		Profile:    profile,
		RandSource: randSource,
	})
	if err != nil {
		return fmt.Errorf("could not create feed generator: %w", err)
	}

	sess, err := session.NewSession(session.SessionConfig{
		Generator:   gen,
		TimeNowFunc: timeNowFunc,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}

	snap, err := sess.GetSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("could not get snapshot: %w", err)
	}

	out := config.Stdout
	if s.out != "-" {
		f, err := os.Create(s.out)
		if err != nil {
			return fmt.Errorf("could not create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	repo, err := newSnapshotRepo(out, logger, s.format, tplData)
	if err != nil {
		return err
	}

	err = repo.StoreSnapshot(ctx, snap)
	if err != nil {
		return fmt.Errorf("could not store snapshot: %w", err)
	}

	logger.Debugf("Snapshot generated")
	return nil
}

type snapshotRepo interface {
	StoreSnapshot(ctx context.Context, snap *model.Snapshot) error
}

func newSnapshotRepo(out io.Writer, logger log.Logger, format string, tplData []byte) (snapshotRepo, error) {
	switch format {
	case snapshotFormatYAML:
		return storageio.NewYAMLSnapshotRepo(out, logger), nil
	case snapshotFormatTemplate:
		return storageio.NewCustomGoTemplateSnapshotRepo(out, logger, tplData)
	default:
		return storageio.NewJSONSnapshotRepo(out, logger), nil
	}
}
