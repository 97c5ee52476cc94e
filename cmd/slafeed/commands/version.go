package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slafeed/internal/info"
)

type versionCommand struct {
	extended bool
}

// NewVersionCommand returns the version command.
func NewVersionCommand(app *kingpin.Application) Command {
	c := &versionCommand{}
	cmd := app.Command("version", "Shows version.")
	cmd.Flag("extended", "Shows the build information as JSON.").BoolVar(&c.extended)

	return c
}

func (versionCommand) Name() string { return "version" }
func (v versionCommand) Run(ctx context.Context, config RootConfig) error {
	if !v.extended {
		fmt.Fprint(config.Stdout, info.Version)
		return nil
	}

	return json.NewEncoder(config.Stdout).Encode(struct {
		Version   string `json:"version"`
		GoVersion string `json:"goVersion"`
		Platform  string `json:"platform"`
	}{
		Version:   info.Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	})
}
