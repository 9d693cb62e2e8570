package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger обёртка над logrus с printf-стилем вызовов.
// Пишет JSON в stdout и, если указан файл, дублирует в файл с ротацией.
type Logger struct {
	entry *logrus.Logger
	file  *lumberjack.Logger
}

// New создаёт логгер. filePath может быть пустым - тогда логи идут только в stdout.
func New(filePath, level string) (*Logger, error) {
	var file *lumberjack.Logger
	var out io.Writer = os.Stdout

	if filePath != "" {
		file = &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	l, err := NewWithWriter(out, level)
	if err != nil {
		return nil, err
	}
	l.file = file

	return l, nil
}

// NewWithWriter создаёт логгер, пишущий в произвольный writer
func NewWithWriter(w io.Writer, level string) (*Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger: invalid level %q: %w", level, err)
	}

	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(lvl)
	base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	return &Logger{entry: base}, nil
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Fatal пишет сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.entry.Fatalf(format, v...)
}

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
