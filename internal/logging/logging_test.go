package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "", want: zapcore.InfoLevel},
		{name: "debug", want: zapcore.DebugLevel},
		{name: "warn", want: zapcore.WarnLevel},
		{name: "error", want: zapcore.ErrorLevel},
		{name: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := New(Options{Level: "info", Quiet: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	debug, err := New(Options{Level: "debug", Quiet: true})
	require.NoError(t, err)
	assert.True(t, debug.Core().Enabled(zapcore.DebugLevel))

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
