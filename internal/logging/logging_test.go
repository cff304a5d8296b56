package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		for _, dev := range []bool{false, true} {
			logger, err := New(tt.level, dev)
			require.NoError(t, err, tt.level)
			assert.True(t, logger.Desugar().Core().Enabled(tt.want), tt.level)
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Desugar().Core().Enabled(tt.want-1), tt.level)
			}
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.ErrorContains(t, err, "invalid log level")
}
