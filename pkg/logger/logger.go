package logger

import (
	"os"

	"go.uber.org/zap"
)

type Logger interface {
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Debug(msg string, values ...any)
	Panic(msg string, values ...any)
	Fatal(err error, values ...any)
}

type zapLogger struct {
	log *zap.SugaredLogger
}

var instance *zapLogger

func init() {
	var config zap.Config

	if os.Getenv("LOG_ENV") == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	if _, err := New(config); err != nil {
		panic(err)
	}
}

func New(config zap.Config) (Logger, error) {
	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	defer l.Sync() //nolint
	l = l.WithOptions(zap.AddCallerSkip(2))
	instance = &zapLogger{log: l.Sugar()}
	return instance, nil
}

func get() *zapLogger {
	if instance == nil {
		panic("logger not initialized")
	}
	return instance
}

func Info(msg string, values ...any)  { get().Info(msg, values...) }
func Warn(msg string, values ...any)  { get().Warn(msg, values...) }
func Error(msg string, values ...any) { get().Error(msg, values...) }
func Debug(msg string, values ...any) { get().Debug(msg, values...) }
func Panic(msg string, values ...any) { get().Panic(msg, values...) }
func Fatal(err error, values ...any)  { get().Fatal(err, values...) }

func (l *zapLogger) Info(msg string, values ...any)  { l.log.Infow(msg, values...) }
func (l *zapLogger) Warn(msg string, values ...any)  { l.log.Warnw(msg, values...) }
func (l *zapLogger) Error(msg string, values ...any) { l.log.Errorw(msg, values...) }
func (l *zapLogger) Debug(msg string, values ...any) { l.log.Debugw(msg, values...) }
func (l *zapLogger) Panic(msg string, values ...any) { l.log.Panicw(msg, values...) }
func (l *zapLogger) Fatal(err error, values ...any)  { l.log.Fatalw(err.Error(), values...) }
