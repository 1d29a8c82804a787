package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("x") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(New(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestNewUsesMosaicPrefix(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, log.InfoLevel).Info("hello")
	assert.Contains(t, buf.String(), Name)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, lvl)

	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	Named(New(&buf, log.InfoLevel), "server").Info("up")
	assert.Contains(t, buf.String(), "server")
}

func TestFromContext(t *testing.T) {
	l := log.Default()
	assert.Same(t, l, FromContext(WithLogger(context.Background(), l)))
	assert.NotNil(t, FromContext(context.Background()))
}
