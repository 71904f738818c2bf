package config_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/board/fake"
	"github.com/flashrobotics/devices/components/motor"
	"github.com/flashrobotics/devices/components/motor/victorsp"
	"github.com/flashrobotics/devices/components/movementsensor/adxl193"
	_ "github.com/flashrobotics/devices/components/register"
	"github.com/flashrobotics/devices/config"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

func names(cfg *config.Config) []string {
	out := make([]string, 0, len(cfg.Components))
	for _, c := range cfg.Components {
		out = append(out, c.Name)
	}
	return out
}

func indexOf(list []string, name string) int {
	for i, n := range list {
		if n == name {
			return i
		}
	}
	return -1
}

func TestReadJSON(t *testing.T) {
	cfg, err := config.Read(context.Background(), "data/robot.json", logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "data/robot.json")
	test.That(t, cfg.Components, test.ShouldHaveLength, 5)

	order := names(cfg)
	test.That(t, indexOf(order, "pi"), test.ShouldBeLessThan, indexOf(order, "arm-sensor"))
	test.That(t, indexOf(order, "pi"), test.ShouldBeLessThan, indexOf(order, "range"))
	test.That(t, indexOf(order, "drive"), test.ShouldBeLessThan, indexOf(order, "shaft"))

	pi, ok := cfg.ComponentByName("pi")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pi.API, test.ShouldResemble, board.API)
	test.That(t, pi.Model, test.ShouldResemble, fake.Model)
	boardConf, ok := pi.ConvertedAttributes.(*fake.Config)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, boardConf.I2Cs[0].Devices[0].Address, test.ShouldEqual, 0x1d)
	test.That(t, boardConf.Echoes[0].EchoMicros, test.ShouldEqual, 1000)

	drive, ok := cfg.ComponentByName("drive")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, drive.API, test.ShouldResemble, motor.API)
	test.That(t, drive.Model, test.ShouldResemble, victorsp.Model)
	test.That(t, cmp.Equal(drive.ConvertedAttributes, &victorsp.Config{Board: "pi", Pin: "12", PeriodMultiplier: 2}),
		test.ShouldBeTrue)
	test.That(t, drive.ImplicitDependsOn, test.ShouldResemble, []string{"pi"})

	shaft, _ := cfg.ComponentByName("shaft")
	test.That(t, shaft.Dependencies(), test.ShouldResemble, []string{"drive", "pi"})

	_, ok = cfg.ComponentByName("nope")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestReadYAMLWithEnv(t *testing.T) {
	t.Setenv("WORKSHOP_VREF", "5")
	cfg, err := config.Read(context.Background(), "data/robot.yaml", logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Debug, test.ShouldBeTrue)
	test.That(t, names(cfg), test.ShouldResemble, []string{"pi", "bump"})

	pi, _ := cfg.ComponentByName("pi")
	test.That(t, pi.ConvertedAttributes.(*fake.Config).Analogs[0].VRef, test.ShouldEqual, 5)
	bump, _ := cfg.ComponentByName("bump")
	test.That(t, bump.ConvertedAttributes.(*adxl193.Config).VoltsPerG, test.ShouldEqual, 0.01)
}

func TestReadErrors(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)

	_, err := config.Read(ctx, "data/missing.json", logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read config")

	for _, tc := range []struct {
		name     string
		path     string
		contents string
		errMsg   string
	}{
		{
			"bad json",
			"robot.json",
			`{"components": [`,
			"failed to decode Config from json",
		},
		{
			"empty yaml",
			"robot.yaml",
			``,
			"empty config",
		},
		{
			"unknown model",
			"robot.json",
			`{"components": [{"name": "pi", "type": "board", "model": "raspberry"}]}`,
			"not registered",
		},
		{
			"bad type shorthand",
			"robot.json",
			`{"components": [{"name": "pi", "type": "bo:ard", "model": "fake"}]}`,
			"components.0",
		},
		{
			"missing attribute",
			"robot.json",
			`{"components": [{"name": "range", "type": "sensor", "model": "hc-sr04", "attributes": {"board": "pi"}}]}`,
			"components.0.attributes",
		},
		{
			"missing dependency",
			"robot.json",
			`{"components": [{"name": "drive", "type": "motor", "model": "victorsp", "attributes": {"board": "pi", "pin": "1"}}]}`,
			`depends on "pi" which is not configured`,
		},
		{
			"duplicate name",
			"robot.yml",
			"components:\n  - {name: pi, type: board, model: fake}\n  - {name: pi, type: board, model: fake}\n",
			"not unique",
		},
		{
			"cycle",
			"robot.json",
			`{"components": [
				{"name": "a", "type": "board", "model": "fake", "depends_on": ["b"]},
				{"name": "b", "type": "board", "model": "fake", "depends_on": ["a"]}
			]}`,
			"circular dependency",
		},
		{
			"invalid name",
			"robot.json",
			`{"components": [{"name": "my board", "type": "board", "model": "fake"}]}`,
			"components.0",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.FromReader(ctx, tc.path, strings.NewReader(tc.contents), logger)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errMsg)
		})
	}
}

func TestFromReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := config.FromReader(ctx, "robot.json", strings.NewReader(`{}`), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestSortComponents(t *testing.T) {
	comp := func(name string, deps ...string) resource.Config {
		return resource.Config{Name: name, DependsOn: deps}
	}
	sorted, err := config.SortComponents([]resource.Config{
		comp("c", "b"),
		comp("b", "a"),
		comp("a"),
		comp("d", "a", "c"),
	})
	test.That(t, err, test.ShouldBeNil)
	out := make([]string, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, c.Name)
	}
	test.That(t, out, test.ShouldResemble, []string{"a", "b", "c", "d"})

	_, err = config.SortComponents([]resource.Config{comp("a", "a")})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "circular dependency detected in component list between a, a")
}
