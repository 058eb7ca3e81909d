package grade

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"harmonic/pkg/label"
)

// Scenario is a YAML-defined set of extra cases appended after the
// built-in battery. The built-in battery always runs and cannot be
// replaced; scenarios only extend it.
type Scenario struct {
	Name  string     `yaml:"name"`
	Cases []caseSpec `yaml:"cases"`
}

type caseSpec struct {
	Name        string      `yaml:"name"`
	Truth       []labelSpec `yaml:"truth"`
	Pred        []labelSpec `yaml:"pred"`
	Expect      *float64    `yaml:"expect"`
	ExpectError string      `yaml:"expect_error"`
}

// labelSpec is the YAML form of one label: a map with exactly one
// variant field set, e.g. {int: 3}, {str: cat}, {nan: true},
// {tuple: [{str: A}, {int: 1}]}, {set: [{int: 1}, {int: 2}]}.
type labelSpec struct {
	Int   *int64      `yaml:"int"`
	Float *float64    `yaml:"float"`
	Str   *string     `yaml:"str"`
	Bool  *bool       `yaml:"bool"`
	NaN   bool        `yaml:"nan"`
	Tuple []labelSpec `yaml:"tuple"`
	Set   []labelSpec `yaml:"set"`
}

// LoadScenario reads extra cases from a YAML file.
func LoadScenario(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return s.Build()
}

// Build converts the parsed scenario into runnable cases.
func (s *Scenario) Build() ([]Case, error) {
	var cases []Case
	for i, cs := range s.Cases {
		if cs.Name == "" {
			return nil, fmt.Errorf("scenario case %d: missing name", i)
		}
		truth, err := buildLabels(cs.Truth)
		if err != nil {
			return nil, fmt.Errorf("scenario case %q: truth: %w", cs.Name, err)
		}
		pred, err := buildLabels(cs.Pred)
		if err != nil {
			return nil, fmt.Errorf("scenario case %q: pred: %w", cs.Name, err)
		}

		c := NewCase(cs.Name, truth, pred)
		c.Expect = cs.Expect
		switch cs.ExpectError {
		case "":
		case "length_mismatch":
			c.ExpectErr = label.ErrLengthMismatch
		default:
			return nil, fmt.Errorf("scenario case %q: unknown expect_error %q", cs.Name, cs.ExpectError)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func buildLabels(specs []labelSpec) ([]label.Value, error) {
	out := make([]label.Value, len(specs))
	for i, s := range specs {
		v, err := s.value()
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (s labelSpec) value() (label.Value, error) {
	set := 0
	var out label.Value
	if s.Int != nil {
		set++
		out = label.Int(*s.Int)
	}
	if s.Float != nil {
		set++
		out = label.Float(*s.Float)
	}
	if s.Str != nil {
		set++
		out = label.String(*s.Str)
	}
	if s.Bool != nil {
		set++
		out = label.Bool(*s.Bool)
	}
	if s.NaN {
		set++
		out = label.NaN()
	}
	if s.Tuple != nil {
		set++
		members, err := buildLabels(s.Tuple)
		if err != nil {
			return label.Value{}, err
		}
		out = label.Tuple(members...)
	}
	if s.Set != nil {
		set++
		members, err := buildLabels(s.Set)
		if err != nil {
			return label.Value{}, err
		}
		out = label.Set(members...)
	}
	if set != 1 {
		return label.Value{}, fmt.Errorf("exactly one of int/float/str/bool/nan/tuple/set must be set, got %d", set)
	}
	return out, nil
}
