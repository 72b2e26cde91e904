package common

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewNamedTimer("test_timer")
	assert.Equal(t, "test_timer", timer.Name())

	time.Sleep(10 * time.Millisecond)

	duration := timer.Stop()
	assert.GreaterOrEqual(t, duration, 10*time.Millisecond)
	assert.Equal(t, duration, timer.Duration())

	str := timer.String()
	assert.Contains(t, str, "test_timer")
	assert.Contains(t, str, "ms")
}

func TestUnnamedTimer(t *testing.T) {
	timer := NewTimer()
	assert.Empty(t, timer.Name())
	assert.Equal(t, time.Duration(0), timer.Duration(), "duration is zero before Stop")
	d := timer.Stop()
	assert.Equal(t, d.String(), timer.String())
}

func TestStages(t *testing.T) {
	var stages Stages
	render := stages.Start("render")
	time.Sleep(2 * time.Millisecond)
	render.Stop()
	save := stages.Start("save")
	save.Stop()

	assert.Equal(t, render.Duration()+save.Duration(), stages.Total())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("done", "stages", &stages)
	assert.Contains(t, buf.String(), "stages.render=")
	assert.Contains(t, buf.String(), "stages.save=")
}
