package nanorq

import (
	"io"
	"log"
	"os"
)

// Logging levels for NewLogger, ordered least to most verbose.
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

var _ Logger = &basicLogger{}

// Logger is the logging surface the encoder/decoder drivers call into.
// Embedders that already have a structured logger can satisfy this
// directly instead of using NewLogger.
type Logger interface {
	Debug(v ...interface{})
	Debugf(f string, v ...interface{})
	Info(v ...interface{})
	Infof(f string, v ...interface{})
	Error(v ...interface{})
	Errorf(f string, v ...interface{})
}

type basicLogger struct {
	debug *log.Logger
	info  *log.Logger
	err   *log.Logger
}

// NewLogger builds a Logger writing to stdout at the given verbosity,
// prefixing every line with prepend.
func NewLogger(level int, prepend string) *basicLogger {
	logErr, logInfo, logDebug := func() (io.Writer, io.Writer, io.Writer) {
		discard := io.Discard
		switch {
		case level >= LogLevelDebug:
			return os.Stdout, os.Stdout, os.Stdout
		case level >= LogLevelInfo:
			return os.Stdout, os.Stdout, discard
		case level >= LogLevelError:
			return os.Stdout, discard, discard
		default:
			return discard, discard, discard
		}
	}()

	return &basicLogger{
		debug: log.New(logDebug, "DEBUG: "+prepend, log.Ldate|log.Ltime),
		info:  log.New(logInfo, "INFO: "+prepend, log.Ldate|log.Ltime),
		err:   log.New(logErr, "ERROR: "+prepend, log.Ldate|log.Ltime),
	}
}

func (l *basicLogger) Debug(v ...interface{})            { l.debug.Println(v...) }
func (l *basicLogger) Debugf(f string, v ...interface{}) { l.debug.Printf(f, v...) }
func (l *basicLogger) Info(v ...interface{})             { l.info.Println(v...) }
func (l *basicLogger) Infof(f string, v ...interface{})  { l.info.Printf(f, v...) }
func (l *basicLogger) Error(v ...interface{})            { l.err.Println(v...) }
func (l *basicLogger) Errorf(f string, v ...interface{}) { l.err.Printf(f, v...) }
