package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestSublogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	sub := logger.Sublogger("gyro")
	sub.Infow("constructed", "port", "spi0")

	entries := observed.All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "gyro")
	test.That(t, entries[0].Message, test.ShouldEqual, "constructed")
	test.That(t, entries[0].ContextMap()["port"], test.ShouldEqual, "spi0")

	subsub := sub.Sublogger("counter")
	subsub.Debug("reset")
	test.That(t, observed.All()[1].LoggerName, test.ShouldEqual, "gyro.counter")
}

func TestLevels(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Errorf("kept %d", 2)
	test.That(t, observed.Len(), test.ShouldEqual, 2)

	// subloggers start at the parent level but are adjusted independently.
	sub := logger.Sublogger("motor")
	test.That(t, sub.GetLevel(), test.ShouldEqual, WARN)
	sub.SetLevel(DEBUG)
	sub.Debug("kept")
	logger.Debug("dropped")
	test.That(t, observed.Len(), test.ShouldEqual, 3)
}

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.expected)
		test.That(t, level.AsZap().String(), test.ShouldEqual, map[Level]string{
			DEBUG: "debug", INFO: "info", WARN: "warn", ERROR: "error",
		}[tc.expected])
	}

	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "loud")
}

func TestGlobal(t *testing.T) {
	prev := Global()
	defer ReplaceGlobal(prev)

	logger := NewBlankLogger("blank")
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
}

func TestFileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workshop.log")
	core, closer := NewFileCore(path, 0)
	logger := NewTeeLogger("workshop", INFO, core, zapcore.NewNopCore())

	logger.Debug("dropped")
	logger.Sublogger("gyro").Infow("constructed", "port", "spi0")
	test.That(t, logger.Sync(), test.ShouldBeNil)
	test.That(t, closer.Close(), test.ShouldBeNil)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	test.That(t, lines, test.ShouldHaveLength, 1)

	var entry map[string]interface{}
	test.That(t, json.Unmarshal([]byte(lines[0]), &entry), test.ShouldBeNil)
	test.That(t, entry["level"], test.ShouldEqual, "INFO")
	test.That(t, entry["logger"], test.ShouldEqual, "workshop.gyro")
	test.That(t, entry["msg"], test.ShouldEqual, "constructed")
	test.That(t, entry["port"], test.ShouldEqual, "spi0")
}
