package log

import (
	"io"
	stdlog "log"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"DEBUG", debugLevel},
		{"info", infoLevel},
		{"Warn", warnLevel},
		{"ERROR", errorLevel},
		{"FATAL", fatalLevel},
		{"bogus", debugLevel},
		{"", debugLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltersOutput(t *testing.T) {
	var sink countingWriter
	l := &Logger{
		level:      warnLevel,
		baseLogger: stdlog.New(&sink, "", 0),
	}
	l.Debug("dropped")
	l.Info("dropped")
	if sink.writes != 0 {
		t.Fatalf("writes = %d, below-level messages must be dropped", sink.writes)
	}
	l.Warn("kept")
	l.Error("kept")
	if sink.writes != 2 {
		t.Errorf("writes = %d, want 2", sink.writes)
	}
}

func TestCloseReleasesLogger(t *testing.T) {
	l := &Logger{baseLogger: stdlog.New(io.Discard, "", 0)}
	l.Close()
	if l.baseLogger != nil || l.baseFile != nil {
		t.Error("Close must release the underlying logger and file")
	}
}

type countingWriter struct {
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return len(p), nil
}
