package resource_test

import (
	"context"
	"encoding/json"
	"testing"

	"go.viam.com/test"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/utils"
)

var testAPI = resource.APINamespaceWorkshop.WithComponentType("widget")

func TestAPIFromString(t *testing.T) {
	api, err := resource.NewAPIFromString("workshop:component:sensor")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, api, test.ShouldResemble, resource.APINamespaceWorkshop.WithComponentType("sensor"))
	test.That(t, api.String(), test.ShouldEqual, "workshop:component:sensor")
	test.That(t, api.IsComponent(), test.ShouldBeTrue)

	api, err = resource.NewAPIFromString("encoder")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, api.String(), test.ShouldEqual, "workshop:component:encoder")

	_, err = resource.NewAPIFromString("a:b")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "reserved character")
}

func TestModelFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected resource.Model
		err      string
	}{
		{"victorsp", resource.NewBuiltinModel("victorsp"), ""},
		{"victorsp-manual-deadband", resource.NewBuiltinModel("victorsp-manual-deadband"), ""},
		{
			"acme:bots:fancy",
			resource.ModelFamily{Namespace: "acme", Name: "bots"}.WithModel("fancy"),
			"",
		},
		{"acme:fancy", resource.Model{}, "not a valid model name"},
		{"", resource.Model{}, "not a valid model name"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			m, err := resource.NewModelFromString(tc.in)
			if tc.err != "" {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
				return
			}
			test.That(t, err, test.ShouldBeNil)
			test.That(t, m, test.ShouldResemble, tc.expected)
		})
	}
	test.That(t, resource.NewBuiltinModel("adxl345").String(), test.ShouldEqual, "workshop:builtin:adxl345")
}

func TestNameFromString(t *testing.T) {
	name, err := resource.NewFromString("workshop:component:motor/left")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, name, test.ShouldResemble, resource.NewName(resource.APINamespaceWorkshop.WithComponentType("motor"), "left"))
	test.That(t, name.String(), test.ShouldEqual, "workshop:component:motor/left")
	test.That(t, name.Validate(), test.ShouldBeNil)

	_, err = resource.NewFromString("left")
	test.That(t, err, test.ShouldNotBeNil)

	bad := resource.NewName(testAPI, "-bad")
	test.That(t, bad.Validate(), test.ShouldNotBeNil)
}

type widget struct {
	resource.Named
	resource.TriviallyCloseable
	cfg *widgetConfig
}

type widgetConfig struct {
	Board      string             `json:"board"`
	Rate       float64            `json:"rate_hz,omitempty"`
	Attributes utils.AttributeMap `json:"attributes,omitempty"`
}

func (cfg *widgetConfig) Validate(path string) ([]string, error) {
	if cfg.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	return []string{cfg.Board}, nil
}

func TestRegistryRoundTrip(t *testing.T) {
	model := resource.NewBuiltinModel("widget")
	resource.RegisterComponent(testAPI, model, resource.Registration[*widget, *widgetConfig]{
		Constructor: func(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (*widget, error) {
			cfg, err := resource.NativeConfig[*widgetConfig](conf)
			if err != nil {
				return nil, err
			}
			return &widget{Named: conf.ResourceName().AsNamed(), cfg: cfg}, nil
		},
	})
	defer resource.Deregister(testAPI, model)

	test.That(t, func() {
		resource.RegisterComponent(testAPI, model, resource.Registration[*widget, *widgetConfig]{
			Constructor: func(context.Context, resource.Dependencies, resource.Config, logging.Logger) (*widget, error) {
				return nil, nil
			},
		})
	}, test.ShouldPanic)

	var conf resource.Config
	err := json.Unmarshal([]byte(`{
		"name": "w1",
		"api": "widget",
		"model": "widget",
		"attributes": {"board": "local", "rate_hz": "5", "extra": "kept"}
	}`), &conf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Model, test.ShouldResemble, model)

	test.That(t, resource.ConvertAttributes(&conf), test.ShouldBeNil)
	deps, err := conf.Validate("components.0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deps, test.ShouldResemble, []string{"local"})
	test.That(t, conf.Dependencies(), test.ShouldResemble, []string{"local"})

	reg, ok := resource.LookupRegistration(testAPI, model)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, reg.API(), test.ShouldResemble, testAPI)
	res, err := reg.Constructor(context.Background(), nil, conf, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	w := res.(*widget)
	test.That(t, w.Name().ShortName(), test.ShouldEqual, "w1")
	test.That(t, w.cfg.Rate, test.ShouldEqual, 5.0)
	test.That(t, w.cfg.Attributes["extra"], test.ShouldEqual, "kept")

	found := false
	for _, am := range resource.RegisteredModels() {
		if am.API == testAPI && am.Model == model {
			found = true
		}
	}
	test.That(t, found, test.ShouldBeTrue)

	conf.ConvertedAttributes = &widgetConfig{}
	_, err = conf.Validate("components.0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"board" is required`)
}

func TestConfigValidate(t *testing.T) {
	conf := resource.Config{API: testAPI, Model: resource.NewBuiltinModel("widget")}
	_, err := conf.Validate("components.1")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"name" is required`)

	conf.Name = "has space"
	_, err = conf.Validate("components.1")
	test.That(t, err, test.ShouldNotBeNil)

	conf.Name = "ok"
	conf.Model = resource.Model{}
	_, err = conf.Validate("components.1")
	test.That(t, err, test.ShouldNotBeNil)

	conf.Model = resource.NewBuiltinModel("nope")
	test.That(t, resource.ConvertAttributes(&conf), test.ShouldNotBeNil)
}

func TestDependencies(t *testing.T) {
	name := resource.NewName(testAPI, "w1")
	deps := resource.Dependencies{name: &widget{Named: name.AsNamed()}}

	w, err := resource.FromDependencies[*widget](deps, name)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w.Name(), test.ShouldResemble, name)

	_, err = resource.FromDependencies[*widget](deps, resource.NewName(testAPI, "w2"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, resource.IsNotFoundError(err), test.ShouldBeTrue)

	type other interface {
		resource.Resource
		Spin() error
	}
	_, err = resource.FromDependencies[other](deps, name)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected resource")
	test.That(t, deps.Names(), test.ShouldHaveLength, 1)
}
