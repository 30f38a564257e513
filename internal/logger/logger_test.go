package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitWithLevelSwitchesLevel(t *testing.T) {
	defer func() { Log = zap.NewNop() }()

	InitWithLevel(false)
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel), "production logger skips debug")
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))

	InitWithLevel(true)
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel), "verbose logger logs debug")
	Sync()
}
