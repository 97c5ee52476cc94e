package io

import (
	"context"
	"fmt"
	"io"
	"text/template"

	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/registry/conversion"
	"github.com/go-sprout/sprout/registry/encoding"
	"github.com/go-sprout/sprout/registry/maps"
	"github.com/go-sprout/sprout/registry/slices"
	"github.com/go-sprout/sprout/registry/std"
	"github.com/go-sprout/sprout/registry/strings"
	"github.com/go-sprout/sprout/registry/time"

	"github.com/slok/slafeed/internal/log"
	"github.com/slok/slafeed/internal/model"
)

func NewCustomGoTemplateSnapshotRepo(writer io.Writer, logger log.Logger, tplData []byte) (*CustomGoTemplateSnapshotRepo, error) {
	if len(tplData) == 0 {
		return nil, fmt.Errorf("template is required")
	}

	handler := sprout.New()
	err := handler.AddRegistries(
		conversion.NewRegistry(),
		std.NewRegistry(),
		encoding.NewRegistry(),
		maps.NewRegistry(),
		slices.NewRegistry(),
		strings.NewRegistry(),
		time.NewRegistry(),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create sprout handler: %w", err)
	}

	tpl, err := template.New("snapshot").Funcs(handler.Build()).Parse(string(tplData))
	if err != nil {
		return nil, fmt.Errorf("could not parse custom Go template: %w", err)
	}

	return &CustomGoTemplateSnapshotRepo{
		writer: writer,
		logger: logger.WithValues(log.Kv{"svc": "storageio.CustomGoTemplateSnapshotRepo"}),
		tpl:    tpl,
	}, nil
}

// CustomGoTemplateSnapshotRepo renders dashboard snapshots using a user provided Go template.
// The template receives the snapshot as its data, with the sprout functions available.
type CustomGoTemplateSnapshotRepo struct {
	writer io.Writer
	logger log.Logger
	tpl    *template.Template
}

func (r CustomGoTemplateSnapshotRepo) StoreSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return ErrNoSnapshot
	}

	err := r.tpl.Execute(r.writer, snap)
	if err != nil {
		return fmt.Errorf("could not render snapshot template: %w", err)
	}

	r.logger.Debugf("Snapshot rendered with custom template")
	return nil
}
