package stripeclient

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// leveledLogger адаптер к stripe.LeveledLoggerInterface
type leveledLogger struct {
	log Logger
}

func (l leveledLogger) Debugf(format string, v ...interface{}) { l.log.Debug("stripe: "+format, v...) }
func (l leveledLogger) Infof(format string, v ...interface{})  { l.log.Debug("stripe: "+format, v...) }
func (l leveledLogger) Warnf(format string, v ...interface{})  { l.log.Warn("stripe: "+format, v...) }
func (l leveledLogger) Errorf(format string, v ...interface{}) { l.log.Error("stripe: "+format, v...) }
