package main

import (
	"fmt"
	"io"
	"log"
	"strings"
)

//LogLevel is the lowest severity a Logger prints.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

//parseLogLevel is case-insensitive. Unknown levels mean info.
func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

//Logger is a leveled logger. It satisfies sketch.Logger.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

//NewLogger returns a logger printing messages at level or above to w.
func NewLogger(level string, w io.Writer) *Logger {
	return &Logger{
		level: parseLogLevel(level),
		out:   log.New(w, "", log.LstdFlags),
	}
}

//SetLevel changes the level, as when the configuration is reloaded.
func (l *Logger) SetLevel(level string) {
	l.level = parseLogLevel(level)
}

//Level returns the current level.
func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level >= l.level
}

func (l *Logger) Debugf(format string, v ...any) {
	if l.shouldLog(LogLevelDebug) {
		l.out.Printf("[DEBUG] "+format, v...)
	}
}

func (l *Logger) Infof(format string, v ...any) {
	if l.shouldLog(LogLevelInfo) {
		l.out.Printf("[INFO] "+format, v...)
	}
}

func (l *Logger) Warnf(format string, v ...any) {
	if l.shouldLog(LogLevelWarn) {
		l.out.Printf("[WARN] "+format, v...)
	}
}

func (l *Logger) Errorf(format string, v ...any) {
	if l.shouldLog(LogLevelError) {
		l.out.Printf("[ERROR] "+format, v...)
	}
}

//Info logs its operands at info level.
func (l *Logger) Info(v ...any) {
	if l.shouldLog(LogLevelInfo) {
		l.out.Print("[INFO] ", fmt.Sprint(v...))
	}
}
