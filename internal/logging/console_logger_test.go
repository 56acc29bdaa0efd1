package logging

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newBufferLogger(verbose bool) (*ConsoleLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(zapcore.AddSync(&buf), verbose), &buf
}

func TestConsoleLogger_Format(t *testing.T) {
	logger, buf := newBufferLogger(true)

	logger.Verbose("test message: %s", "value")
	logger.Info("%d files found in %s", 3, "/data")
	logger.Error("failed: %v", "boom")

	expected := "[VERBOSE] test message: value\n" +
		"3 files found in /data\n" +
		"[ERROR] failed: boom\n"
	assert.Equal(t, expected, buf.String())
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	logger, buf := newBufferLogger(false)

	logger.Verbose("hidden")
	logger.Info("shown")

	assert.Equal(t, "shown\n", buf.String())
}

func TestConsoleLogger_NoArgsIsNotFormatted(t *testing.T) {
	logger, buf := newBufferLogger(false)

	logger.Info("100% done")

	assert.Equal(t, "100% done\n", buf.String())
}

func TestConsoleLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core, true)

	logger.Verbose("v")
	logger.Info("i")
	logger.Error("e")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	}
}

func TestConsoleLogger_ConcurrentUse(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("message %d", n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, logs.Len())
}

func TestProgressLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	progress := NewProgressLogger(NewWithCore(core, false))

	progress.Discovered("/data/log_data", 2)
	progress.Processed(1, 2, "/data/log_data/a.json")
	progress.Processed(2, 2, "/data/log_data/b.json")
	progress.Finished("/data/log_data", 2)

	var messages []string
	for _, e := range logs.AllUntimed() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"2 files found in /data/log_data",
		"1/2 files processed.",
		"2/2 files processed.",
	}, messages)
}

func TestNewProgressLogger_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewProgressLogger(nil) })
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	logger.Verbose("x %d", 1)
	logger.Info("x")
	logger.Error("x")
}
