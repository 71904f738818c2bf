package ultrasonic

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/board/fake"
	"github.com/flashrobotics/devices/components/sensor"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/testutils/inject"
)

const (
	testSensorName = "ultrasonic1"
	triggerPin     = "9"
	echoCounter    = "echo"
	board1         = "some-board"
)

func setupFakeBoard(t *testing.T, echoMicros int) resource.Dependencies {
	t.Helper()
	clk := clock.NewMock()
	clk.Add(time.Second)
	conf := &fake.Config{
		Counters: []board.CounterConfig{{Name: echoCounter, UpPin: "8"}},
	}
	if echoMicros > 0 {
		conf.Echoes = []fake.EchoConfig{{TriggerPin: triggerPin, Counter: echoCounter, EchoMicros: echoMicros}}
	}
	b, err := fake.NewBoardWithClock(context.Background(),
		resource.Config{Name: board1, ConvertedAttributes: conf}, clk, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return resource.Dependencies{board.Named(board1): b}
}

func TestValidate(t *testing.T) {
	fakecfg := &Config{}
	_, err := fakecfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "board")

	fakecfg.Board = board1
	_, err = fakecfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "trigger_pin")

	fakecfg.TriggerPin = triggerPin
	_, err = fakecfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "echo_counter")

	fakecfg.EchoCounter = echoCounter
	deps, err := fakecfg.Validate("path")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deps, test.ShouldResemble, []string{board1})
}

func TestDistanceFromEcho(t *testing.T) {
	for _, tc := range []struct {
		width    time.Duration
		expected float64
	}{
		{0, 0},
		{time.Millisecond, 17.15},
		{582 * time.Microsecond, 9.9813},
		{10 * time.Millisecond, 171.5},
	} {
		test.That(t, DistanceFromEcho(tc.width), test.ShouldAlmostEqual, tc.expected, 1e-9)
	}
}

func TestNewSensor(t *testing.T) {
	ctx := context.Background()
	deps := setupFakeBoard(t, 1000)
	fakecfg := &Config{TriggerPin: triggerPin, EchoCounter: echoCounter, Board: board1}

	s, err := NewSensor(ctx, deps, sensor.Named(testSensorName), fakecfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Name(), test.ShouldResemble, sensor.Named(testSensorName))

	b, err := board.FromDependencies(deps, board1)
	test.That(t, err, test.ShouldBeNil)
	fb := b.(*fake.Board)
	test.That(t, fb.Counters[echoCounter].SemiPeriodMode(), test.ShouldBeTrue)
	test.That(t, fb.GPIOPins[triggerPin].Writes(), test.ShouldResemble, []bool{false})

	_, err = NewSensor(ctx, deps, sensor.Named(testSensorName),
		&Config{TriggerPin: triggerPin, EchoCounter: "missing", Board: board1}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewSensor(ctx, resource.Dependencies{}, sensor.Named(testSensorName), fakecfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadings(t *testing.T) {
	ctx := context.Background()
	fakecfg := &Config{TriggerPin: triggerPin, EchoCounter: echoCounter, Board: board1, TimeoutMs: 5}

	t.Run("echo", func(t *testing.T) {
		deps := setupFakeBoard(t, 1000)
		s, err := NewSensor(ctx, deps, sensor.Named(testSensorName), fakecfg, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)

		dist, err := s.DistanceCm(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dist, test.ShouldEqual, NoEcho)

		readings, err := s.Readings(ctx, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, readings["distance_cm"], test.ShouldAlmostEqual, 17.15, 1e-9)

		b, _ := board.FromDependencies(deps, board1)
		test.That(t, b.(*fake.Board).GPIOPins[triggerPin].Writes(), test.ShouldResemble, []bool{false, true, false})
		test.That(t, s.Close(ctx), test.ShouldBeNil)
	})

	t.Run("no echo", func(t *testing.T) {
		deps := setupFakeBoard(t, 0)
		logger, logs := logging.NewObservedTestLogger(t)
		s, err := NewSensor(ctx, deps, sensor.Named(testSensorName), fakecfg, logger)
		test.That(t, err, test.ShouldBeNil)

		readings, err := s.Readings(ctx, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, readings["distance_cm"], test.ShouldEqual, NoEcho)
		test.That(t, logs.FilterMessage("no echo received").Len(), test.ShouldEqual, 1)
	})

	t.Run("cancelled", func(t *testing.T) {
		deps := setupFakeBoard(t, 0)
		s, err := NewSensor(ctx, deps, sensor.Named(testSensorName),
			&Config{TriggerPin: triggerPin, EchoCounter: echoCounter, Board: board1, TimeoutMs: 10000},
			logging.NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)

		cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err = s.Readings(cancelCtx, nil)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestDistanceCm(t *testing.T) {
	ctx := context.Background()
	counter := &inject.Counter{}
	s := &Sensor{echo: counter}

	for _, tc := range []struct {
		count    int64
		period   time.Duration
		expected float64
	}{
		{0, time.Millisecond, NoEcho},
		{1, time.Millisecond, NoEcho},
		{2, time.Millisecond, 17.15},
		{3, 2 * time.Millisecond, 34.3},
	} {
		counter.CountFunc = func(ctx context.Context, extra map[string]interface{}) (int64, error) {
			return tc.count, nil
		}
		counter.PeriodFunc = func(ctx context.Context, extra map[string]interface{}) (time.Duration, error) {
			return tc.period, nil
		}
		dist, err := s.DistanceCm(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dist, test.ShouldAlmostEqual, tc.expected, 1e-9)
	}

	counter.CountFunc = func(ctx context.Context, extra map[string]interface{}) (int64, error) {
		return 0, errors.New("counter gone")
	}
	_, err := s.DistanceCm(ctx)
	test.That(t, err, test.ShouldNotBeNil)
}
