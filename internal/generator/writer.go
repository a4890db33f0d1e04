package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names used by WriteDataset and read back by the ingest command.
const (
	NodesFile = "nodes.json"
	EdgesFile = "edges.json"
)

// WriteDataset serializes the dataset into NodesFile and EdgesFile under dir.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, NodesFile), dataset.Nodes); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, EdgesFile), dataset.Edges)
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
