package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level LogLevel) *Logger {
	return &Logger{
		entries:    make([]LogEntry, 0),
		maxEntries: 10,
		level:      level,
	}
}

func TestLevelFiltering(t *testing.T) {
	l := newTestLogger(LevelWarn)

	l.Debug("TEST", "dropped")
	l.Info("TEST", "dropped")
	l.Warn("TEST", "kept")
	l.Error("TEST", "kept")

	entries := l.GetEntries(0)
	require.Len(t, entries, 2)
	assert.Equal(t, LevelWarn, entries[0].Level)
	assert.Equal(t, LevelError, entries[1].Level)
}

func TestRingBufferCap(t *testing.T) {
	l := newTestLogger(LevelDebug)

	for i := 0; i < 25; i++ {
		l.Infof("TEST", "entry %d", i)
	}

	entries := l.GetEntries(0)
	require.Len(t, entries, 10)
	assert.Equal(t, "entry 24", entries[9].Message)
	assert.Equal(t, "entry 15", entries[0].Message)
}

func TestSubscribe(t *testing.T) {
	l := newTestLogger(LevelDebug)
	ch := l.Subscribe()

	l.Info("TEST", "hello")

	select {
	case entry := <-ch:
		assert.Equal(t, "hello", entry.Message)
		assert.Equal(t, "TEST", entry.Category)
	case <-time.After(time.Second):
		t.Fatal("no entry received on subscriber channel")
	}

	l.Unsubscribe(ch)
	l.Info("TEST", "after unsubscribe")
	select {
	case e := <-ch:
		t.Fatalf("unexpected entry after unsubscribe: %v", e)
	default:
	}
}

func TestLogQuery(t *testing.T) {
	l := newTestLogger(LevelDebug)

	l.LogQuery("time.example.org:123", true, 20*time.Millisecond, "stratum 2")
	l.LogQuery("down.example.org:123", false, 0, "")

	entries := l.GetEntries(0)
	require.Len(t, entries, 2)
	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Contains(t, entries[0].Message, "ok")
	assert.Equal(t, LevelWarn, entries[1].Level)
	assert.Contains(t, entries[1].Message, "failed")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestFormatEntry(t *testing.T) {
	entry := LogEntry{
		Timestamp: time.Date(2026, 8, 26, 12, 30, 45, 0, time.UTC),
		Level:     LevelInfo,
		LevelStr:  "INFO",
		Category:  "QUERY",
		Message:   "hello",
	}
	assert.Equal(t, "12:30:45 [INFO] [QUERY] hello", FormatEntry(entry))
}
