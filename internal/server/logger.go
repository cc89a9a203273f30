package server

import (
	"fmt"
	"log"
	"os"

	"github.com/cyclopcam/logs"
)

// stderrLog adapts the process-wide standard logger to the logs.Log interface
// used by the folder runner. Debug output is dropped unless enabled.
type stderrLog struct {
	debug bool
}

// NewStderrLog returns a logs.Log that writes through the standard logger.
// Call it after log.SetOutput(os.Stderr); stdout carries the protocol.
func NewStderrLog(debug bool) logs.Log {
	return &stderrLog{debug: debug}
}

// DebugEnabled reports whether LANDMARK_MCP_LOG_LEVEL asks for debug output.
func DebugEnabled() bool {
	return os.Getenv("LANDMARK_MCP_LOG_LEVEL") == "debug"
}

func (l *stderrLog) Close() {}

func (l *stderrLog) Debugf(format string, args ...interface{}) {
	if l.debug {
		l.output("DEBUG", format, args...)
	}
}

func (l *stderrLog) Infof(format string, args ...interface{}) {
	l.output("INFO", format, args...)
}

func (l *stderrLog) Warnf(format string, args ...interface{}) {
	l.output("WARN", format, args...)
}

func (l *stderrLog) Errorf(format string, args ...interface{}) {
	l.output("ERROR", format, args...)
}

func (l *stderrLog) Criticalf(format string, args ...interface{}) {
	l.output("CRITICAL", format, args...)
}

func (l *stderrLog) output(level, format string, args ...interface{}) {
	// calldepth 3 reports the caller of Infof and friends
	log.Output(3, level+" "+fmt.Sprintf(format, args...))
}
