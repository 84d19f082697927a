package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"sync"
	"time"
)

// levels
const (
	debugLevel = 0
	infoLevel  = 1
	warnLevel  = 2
	errorLevel = 3
	fatalLevel = 4
)

const (
	printDebugLevel = "[DEBUG] "
	printInfoLevel  = "[INFO] "
	printWarnLevel  = "[WARN] "
	printErrorLevel = "[ERROR] "
	printFatalLevel = "[FATAL] "
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorWhite   = "\033[97m"
	colorYellow  = "\033[33m"
	colorBoldRed = "\033[1;31m"
)

// Logger wraps the stdlib logger with levels and colored output.
type Logger struct {
	mu         sync.RWMutex
	level      int
	baseLogger *log.Logger
	baseFile   *os.File
}

var (
	defaultLogger *Logger
	once          sync.Once
)

func init() {
	defaultLogger = &Logger{
		level:      debugLevel,
		baseLogger: log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile),
	}
}

func parseLevel(s string) int {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return debugLevel
	case "INFO":
		return infoLevel
	case "WARN":
		return warnLevel
	case "ERROR":
		return errorLevel
	case "FATAL":
		return fatalLevel
	}
	return debugLevel
}

// New configures the default logger. When pathname is non-empty a timestamped
// log file is created there and written alongside stdout.
func New(strLevel, pathname string, flag int, outWriter ...io.Writer) error {
	once.Do(func() {
		writers := append([]io.Writer{os.Stdout}, outWriter...)
		var baseFile *os.File
		if pathname != "" {
			now := time.Now()
			filename := fmt.Sprintf("%d%02d%02d_%02d_%02d_%02d.log",
				now.Year(), now.Month(), now.Day(),
				now.Hour(), now.Minute(), now.Second())
			file, err := os.Create(path.Join(pathname, filename))
			if err != nil {
				Fatal("create log file: %v", err)
			}
			writers = append(writers, file)
			baseFile = file
		}
		defaultLogger.mu.Lock()
		defer defaultLogger.mu.Unlock()
		defaultLogger.level = parseLevel(strLevel)
		defaultLogger.baseLogger = log.New(io.MultiWriter(writers...), "", flag)
		defaultLogger.baseFile = baseFile
	})
	return nil
}

// Close It's dangerous to call the method on logging
func (logger *Logger) Close() {
	if logger.baseFile != nil {
		logger.baseFile.Close()
	}
	logger.baseLogger = nil
	logger.baseFile = nil
}

func (logger *Logger) outputLevel() int {
	logger.mu.RLock()
	defer logger.mu.RUnlock()
	return logger.level
}

func (logger *Logger) doPrintf(level int, a ...interface{}) {
	if level < logger.outputLevel() || len(a) == 0 {
		return
	}
	if logger.baseLogger == nil {
		panic("logger closed")
	}
	format := ""
	if len(a) > 1 {
		format, _ = a[0].(string)
	}
	content := ""
	if format != "" {
		content = fmt.Sprintf(format, a[1:]...)
	} else {
		sb := strings.Builder{}
		for _, v := range a {
			sb.WriteString(fmt.Sprintf("%+v", v))
		}
		content = sb.String()
	}
	switch level {
	case debugLevel:
		content = printDebugLevel + content
	case infoLevel:
		content = colorWhite + printInfoLevel + content + colorReset
	case warnLevel:
		content = colorYellow + printWarnLevel + content + colorReset
	case errorLevel:
		content = colorRed + printErrorLevel + content + colorReset
	case fatalLevel:
		content = colorBoldRed + printFatalLevel + content + colorReset
	}
	logger.baseLogger.Output(3, content)

	if level == fatalLevel {
		os.Exit(1)
	}
}

func (logger *Logger) Debug(a ...interface{}) {
	logger.doPrintf(debugLevel, a...)
}

func (logger *Logger) Info(a ...interface{}) {
	logger.doPrintf(infoLevel, a...)
}

func (logger *Logger) Warn(a ...interface{}) {
	logger.doPrintf(warnLevel, a...)
}

func (logger *Logger) Error(a ...interface{}) {
	logger.doPrintf(errorLevel, a...)
}

func (logger *Logger) Fatal(a ...interface{}) {
	logger.doPrintf(fatalLevel, a...)
}

// Debug print
func Debug(a ...interface{}) {
	defaultLogger.doPrintf(debugLevel, a...)
}

// Info print
func Info(a ...interface{}) {
	defaultLogger.doPrintf(infoLevel, a...)
}

// Warn print
func Warn(a ...interface{}) {
	defaultLogger.doPrintf(warnLevel, a...)
}

// Error print
func Error(a ...interface{}) {
	defaultLogger.doPrintf(errorLevel, a...)
}

// Fatal print and exit
func Fatal(a ...interface{}) {
	defaultLogger.doPrintf(fatalLevel, a...)
}

// Close default logger
func Close() {
	defaultLogger.Close()
}
