// Package logger configura el logging estructurado del servicio sobre
// zerolog: consola legible en desarrollo, JSON en el resto de entornos.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger; Env y Level vienen de la configuración de la
// aplicación (APP_ENV, LOG_LEVEL).
type Config struct {
	Env   string // development usa consola legible; cualquier otro, JSON
	Level string // debug, info, warn, error
}

// Logger wrapper sobre zerolog para inyección en los componentes del servicio.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger del servicio con el nivel configurado. Un nivel vacío o
// desconocido cae en info.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Librerías que escriben por el logger global de zerolog usan la misma salida.
	log.Logger = zl

	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Level devuelve el nivel efectivo del logger.
func (l *Logger) Level() zerolog.Level { return l.zl.GetLevel() }

// Debug, Info, Warn, Error y Fatal delegan en zerolog.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }
