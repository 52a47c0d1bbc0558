package obslog_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/obslog"
)

func TestLogger_TagsLineWithNodeID(t *testing.T) {
	var buf bytes.Buffer
	l := obslog.New(&buf, zerolog.InfoLevel, "node-42")

	l.Info("started", map[string]interface{}{"attempt": 1})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "node-42", line["node"])
	assert.Equal(t, "started", line["message"])
	assert.Equal(t, float64(1), line["attempt"])
}

func TestLogger_LevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := obslog.New(&buf, zerolog.WarnLevel, "node-1")

	l.Info("should not appear", nil)
	assert.Empty(t, buf.Bytes())

	l.Warn("should appear", nil)
	assert.NotEmpty(t, buf.Bytes())
}

func TestLogger_OptsAttachesFieldToSubsequentLines(t *testing.T) {
	var buf bytes.Buffer
	l := obslog.New(&buf, zerolog.InfoLevel, "node-1")
	l.Opts(map[string]interface{}{"run": "run-7"})

	l.Info("tagged", nil)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run-7", line["run"])
}
