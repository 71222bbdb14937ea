// Package zap adapts a zap logger to the hashcell Logger interface.
package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/hashcell"
)

type Logger struct{ L *zap.Logger }

var _ hashcell.Logger = Logger{}

func (z Logger) Debug(msg string, f hashcell.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f hashcell.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f hashcell.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f hashcell.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f hashcell.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
