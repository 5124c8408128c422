package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ignite/adlens/internal/domain"
)

// LocalExporter writes snapshots under a directory, for development.
type LocalExporter struct {
	root   string
	prefix string
}

// NewLocalExporter creates the root directory if needed.
func NewLocalExporter(root, prefix string) (*LocalExporter, error) {
	if root == "" {
		root = "./data"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	if prefix == "" {
		prefix = "reports"
	}
	return &LocalExporter{root: root, prefix: prefix}, nil
}

func (e *LocalExporter) path(accountID, reportID string) string {
	return filepath.Join(e.root, filepath.FromSlash(SnapshotKey(e.prefix, accountID, reportID)))
}

// Export writes the snapshot and returns its key.
func (e *LocalExporter) Export(_ context.Context, r *domain.ReportSnapshot) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	p := e.path(r.AdAccountID, r.ID)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return SnapshotKey(e.prefix, r.AdAccountID, r.ID), nil
}

// Load reads a previously exported snapshot.
func (e *LocalExporter) Load(_ context.Context, accountID, reportID string) (*domain.ReportSnapshot, error) {
	data, err := os.ReadFile(e.path(accountID, reportID))
	if err != nil {
		return nil, err
	}
	var r domain.ReportSnapshot
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return &r, nil
}
