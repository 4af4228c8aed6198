package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/ifctakeoff/internal/logging"
)

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := logging.New(&buf, "info", "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("model loaded", "entities", 42)

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "model loaded", record["msg"])
	assert.InDelta(t, 42, record["entities"], 0)
}

func TestNewText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := logging.New(&buf, "DEBUG", "text")
	require.NoError(t, err)

	logger.Debug("selected", "category", "pipe_parts")
	assert.Contains(t, buf.String(), "category=pipe_parts")
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	_, err := logging.New(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = logging.New(&bytes.Buffer{}, "info", "xml")
	assert.True(t, errors.Is(err, logging.ErrUnknownFormat))
}
