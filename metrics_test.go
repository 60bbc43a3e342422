package qadom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordParseAndSnapshot(t *testing.T) {
	label := "TestRecordParseAndSnapshot"
	RecordParse(label, 100, 64, false)
	RecordParse(label, 50, 32, true)

	snap := Snapshot(label)
	require.Equal(t, int64(2), snap.Parses)
	require.Equal(t, int64(1), snap.Failures)
	require.Equal(t, int64(150), snap.BytesIn)
	require.Equal(t, int64(96), snap.CellsOut)
}

func TestLoadSinkConfigMissingFileIsNotAnError(t *testing.T) {
	cfg, err := loadSinkConfig(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.NoError(t, err)
	require.Nil(t, cfg)
}

func TestLoadSinkConfigDecodesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sink.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"path":"/tmp/out","interval_ms":500,"include_labels":true}`), 0o644))

	cfg, err := loadSinkConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, "/tmp/out", cfg.Path)
	require.Equal(t, 500, cfg.IntervalMs)
	require.True(t, cfg.IncludeLabels)
}
