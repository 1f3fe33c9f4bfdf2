package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Set(zap.NewNop()) })
	assert.NoError(t, Init("debug", "console"))
	assert.NoError(t, Init("info", "json"))
	assert.Error(t, Init("loud", "json"))
}

func TestSetRoutesHelpers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Debug("hidden")
	Info("clocked in", zap.String("user_id", "u1"))
	Warn("slow")

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "u1", logs.All()[0].ContextMap()["user_id"])
}
