// Package logrus adapts a logrus entry to the hashcell Logger interface.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/hashcell"
)

type Logger struct{ E *logrus.Entry }

var _ hashcell.Logger = Logger{}

func (l Logger) Debug(msg string, f hashcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}

func (l Logger) Info(msg string, f hashcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}

func (l Logger) Warn(msg string, f hashcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}

func (l Logger) Error(msg string, f hashcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
