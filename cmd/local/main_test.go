package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jusunglee/nexttrain/internal/config"
	"github.com/jusunglee/nexttrain/internal/feedtest"
	"github.com/jusunglee/nexttrain/internal/lines"
	"github.com/jusunglee/nexttrain/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestWriteSnapshot(t *testing.T) {
	body := feedtest.Encode(t, feedtest.Message(
		feedtest.TripEntity("t1", "A", feedtest.Stop{ID: "A02S", Arrival: 1700000100}),
		feedtest.TripEntity("t2", "C", feedtest.Stop{ID: "A09S", Arrival: 1700000200}),
		feedtest.VehicleEntity("v1", "A", "A03S"),
	))

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Feed.BaseURL = srv.URL + "/gtfs"
	cfg.Feed.Timeout = time.Second
	out := t.TempDir()

	require.NoError(t, writeSnapshot(context.Background(), cfg, lines.Default(), "A", out))
	assert.Equal(t, "/gtfs-ace", gotPath)

	_, err := os.Stat(filepath.Join(out, "raw-ace.json"))
	require.NoError(t, err)

	msg, err := snapshot.Read(filepath.Join(out, "a.json"))
	require.NoError(t, err)
	require.Len(t, msg.Entities, 1, "only route A trip updates remain")
	assert.Equal(t, "t1", msg.Entities[0].ID)
}

func TestWriteSnapshotUnknownLine(t *testing.T) {
	err := writeSnapshot(context.Background(), config.Default(), lines.Default(), "X", t.TempDir())
	var unknown *lines.UnknownLineError
	assert.ErrorAs(t, err, &unknown)
}

func TestArrivalsDirectionDefaultsSouth(t *testing.T) {
	var dir *cli.StringFlag
	for _, f := range arrivalsCommand().Flags {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "direction" {
			dir = sf
		}
	}
	require.NotNil(t, dir)
	assert.Equal(t, "S", dir.Value)
}
