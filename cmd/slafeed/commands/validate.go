package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slafeed/internal/log"
)

type validateCommand struct {
	profilesInput        string
	profilesExcludeRegex string
	profilesIncludeRegex string
}

// NewValidateCommand returns the validate command.
func NewValidateCommand(app *kingpin.Application) Command {
	c := &validateCommand{}
	cmd := app.Command("validate", "Validates feed profile files.")
	cmd.Flag("input", "Feed profile discovery path, will discover recursively all YAML files.").Short('i').Required().StringVar(&c.profilesInput)
	cmd.Flag("fs-exclude", "Filter regex to ignore matched discovered profile file paths.").Short('e').StringVar(&c.profilesExcludeRegex)
	cmd.Flag("fs-include", "Filter regex to include matched discovered profile file paths, everything else will be ignored. Exclude has preference.").Short('n').StringVar(&c.profilesIncludeRegex)

	return c
}

func (v validateCommand) Name() string { return "validate" }
func (v validateCommand) Run(ctx context.Context, config RootConfig) error {
	logger := config.Logger.WithValues(log.Kv{"command": v.Name()})

	excludeRegex, err := compileOptionalRegex(v.profilesExcludeRegex)
	if err != nil {
		return fmt.Errorf("invalid exclude regex: %w", err)
	}
	includeRegex, err := compileOptionalRegex(v.profilesIncludeRegex)
	if err != nil {
		return fmt.Errorf("invalid include regex: %w", err)
	}

	paths, err := discoverProfileFiles(logger, excludeRegex, includeRegex, v.profilesInput)
	if err != nil {
		return fmt.Errorf("could not discover files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("0 profiles have been discovered")
	}

	failed := 0
	for _, path := range paths {
		logger := logger.WithValues(log.Kv{"file": path})

		_, err := loadProfile(ctx, logger, path)
		if err != nil {
			failed++
			logger.Errorf("Invalid profile: %s", err)
			continue
		}

		logger.Debugf("File validated")
	}

	if failed > 0 {
		return fmt.Errorf("validation failed: %d of %d profiles are invalid", failed, len(paths))
	}

	logger.WithValues(log.Kv{"profiles": len(paths)}).Infof("Validation succeeded")
	return nil
}
