package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// LogrusLogger é a implementação de Logger sobre o logrus, com saída JSON.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger cria um Logger que escreve em stdout no nível informado.
// Níveis desconhecidos caem para "info".
func NewLogger(level string) Logger {
	return NewLoggerWithOutput(level, os.Stdout)
}

// NewLoggerWithOutput é como NewLogger, mas escreve no writer dado.
func NewLoggerWithOutput(level string, out io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// FromEntry embrulha uma entry logrus existente (útil em testes com hooks).
func FromEntry(entry *logrus.Entry) Logger {
	return &LogrusLogger{entry: entry}
}

func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}

// Fatal registra a mensagem e encerra o processo.
func (l *LogrusLogger) Fatal(msg string, err error) {
	l.entry.WithError(err).Fatal(msg)
}
