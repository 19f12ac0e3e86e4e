package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/minimanager/products-api/pkg/logger"
)

func TestNew_NivelConfigurado(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "debug"})
	assert.Equal(t, zerolog.DebugLevel, l.Level())
}

func TestNew_NivelDesconocidoCaeEnInfo(t *testing.T) {
	for _, level := range []string{"", "verboso", "trace"} {
		l := logger.New(logger.Config{Env: "production", Level: level})
		assert.Equal(t, zerolog.InfoLevel, l.Level(), "nivel %q", level)
	}
}

func TestNew_NivelInsensibleAMayusculas(t *testing.T) {
	l := logger.New(logger.Config{Env: "development", Level: "WARN"})
	assert.Equal(t, zerolog.WarnLevel, l.Level())
}
