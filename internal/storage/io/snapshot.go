package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/slok/slafeed/internal/log"
	"github.com/slok/slafeed/internal/model"
)

// ErrNoSnapshot will be used when there is no snapshot to store.
var ErrNoSnapshot = fmt.Errorf("snapshot is required")

func NewJSONSnapshotRepo(writer io.Writer, logger log.Logger) JSONSnapshotRepo {
	return JSONSnapshotRepo{
		writer: writer,
		logger: logger.WithValues(log.Kv{"svc": "storageio.JSONSnapshotRepo"}),
	}
}

// JSONSnapshotRepo knows how to store dashboard snapshots in an IOWriter as indented JSON.
type JSONSnapshotRepo struct {
	writer io.Writer
	logger log.Logger
}

func (r JSONSnapshotRepo) StoreSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return ErrNoSnapshot
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	err := enc.Encode(snap)
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}

	r.logger.Debugf("Snapshot stored as JSON")
	return nil
}

func NewYAMLSnapshotRepo(writer io.Writer, logger log.Logger) YAMLSnapshotRepo {
	return YAMLSnapshotRepo{
		writer: writer,
		logger: logger.WithValues(log.Kv{"svc": "storageio.YAMLSnapshotRepo"}),
	}
}

// YAMLSnapshotRepo knows how to store dashboard snapshots in an IOWriter as YAML.
type YAMLSnapshotRepo struct {
	writer io.Writer
	logger log.Logger
}

func (r YAMLSnapshotRepo) StoreSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return ErrNoSnapshot
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return fmt.Errorf("could not write snapshot: %w", err)
	}

	r.logger.Debugf("Snapshot stored as YAML")
	return nil
}
