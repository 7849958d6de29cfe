// Package snapshot persists decoded feed messages as JSON files.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/jusunglee/nexttrain/internal/models"
	"google.golang.org/protobuf/encoding/protojson"
)

// FileName maps a feed group suffix or line id to a file name.
// The numbered-line group has an empty suffix.
func FileName(name string) string {
	name = strings.TrimPrefix(name, "-")
	if name == "" {
		name = "numbered"
	}
	return name + ".json"
}

// Write stores msg as indented JSON under dir and returns the file path
func Write(dir, name string, msg *models.FeedMessage) (string, error) {
	b, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot %s: %w", name, err)
	}
	return writeFile(dir, FileName(name), b)
}

// WriteRaw stores the protobuf message in its canonical JSON form
func WriteRaw(dir, name string, fm *gtfs.FeedMessage) (string, error) {
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encode raw snapshot %s: %w", name, err)
	}
	return writeFile(dir, "raw-"+FileName(name), b)
}

// Read loads a snapshot written by Write
func Read(path string) (*models.FeedMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var msg models.FeedMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &msg, nil
}

func writeFile(dir, name string, b []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
