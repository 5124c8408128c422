// Package storage exports persisted report snapshots as JSON documents,
// either to S3 or to a local directory.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ignite/adlens/internal/domain"
)

// Config selects the export backend.
type Config struct {
	Type      string `yaml:"type"` // "s3", "local" or "" (disabled)
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Profile   string `yaml:"profile"`
	LocalPath string `yaml:"local_path"`
}

// Exporter writes and reads snapshot documents.
type Exporter interface {
	Export(ctx context.Context, r *domain.ReportSnapshot) (string, error)
	Load(ctx context.Context, accountID, reportID string) (*domain.ReportSnapshot, error)
}

// New builds the configured exporter. It returns nil, nil when export is
// disabled.
func New(ctx context.Context, cfg Config) (Exporter, error) {
	switch strings.ToLower(cfg.Type) {
	case "":
		return nil, nil
	case "s3":
		e, err := NewS3Exporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "local":
		e, err := NewLocalExporter(cfg.LocalPath, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("unknown export type %q", cfg.Type)
}

// SnapshotKey is the object key of a snapshot: <prefix>/<accountID>/<reportID>.json.
func SnapshotKey(prefix, accountID, reportID string) string {
	return path.Join(strings.Trim(prefix, "/"), accountID, reportID+".json")
}
