// Package zaplog adapts a *zap.Logger to shwary.Logger.
//
//	logger, _ := zap.NewProduction()
//	c, err := client.New(cfg, client.WithLogger(zaplog.New(logger)))
package zaplog

import (
	"go.uber.org/zap"

	"github.com/Tresor-Kasenda/shwary-go"
)

type logger struct {
	s *zap.SugaredLogger
}

// New wraps l. A nil l yields shwary.NopLogger.
func New(l *zap.Logger) shwary.Logger {
	if l == nil {
		return shwary.NopLogger()
	}
	return &logger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *logger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }
