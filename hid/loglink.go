package hid

import (
	"encoding/hex"

	log "github.com/sirupsen/logrus"
)

// LogLink is a dry-run Link: always connected once started, it logs each
// report instead of sending it. Plain pointer moves are logged at debug level.
type LogLink struct {
	log     log.FieldLogger
	started bool
	buttons byte
}

func NewLogLink(l log.FieldLogger) *LogLink {
	if l == nil {
		l = log.StandardLogger()
	}
	return &LogLink{log: l}
}

func (l *LogLink) Start() error {
	l.started = true
	l.log.Infoln("hid log link started")
	return nil
}

func (l *LogLink) Connected() bool { return l.started }

func (l *LogLink) WriteReport(report []byte) error {
	if !l.started {
		return ErrNotConnected
	}
	if len(report) == 0 {
		return nil
	}
	entry := l.log.WithFields(log.Fields{
		"Report": hex.EncodeToString(report),
	})
	switch report[0] {
	case KeyboardReportID:
		entry.Infoln("keyboard report")
	case MouseReportID:
		if len(report) > 1 && report[1] != l.buttons {
			l.buttons = report[1]
			entry.Infoln("mouse buttons")
			return nil
		}
		entry.Debugln("mouse move")
	default:
		entry.Warnln("unknown report")
	}
	return nil
}

func (l *LogLink) Close() error {
	l.started = false
	return nil
}
