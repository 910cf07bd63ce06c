package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/globbie/gsl-go/dispatch"
)

// Fixture is one YAML fixture file: a FixtureSpec describing the field
// table to compile, the GSL input to parse, and the captured tree the
// parse is expected to produce.
type Fixture struct {
	Name  string         `yaml:"name"`
	Spec  FixtureSpec    `yaml:"spec"`
	Input string         `yaml:"input"`
	Want  map[string]any `yaml:"want"`
}

// FixtureWithMetadata pairs a loaded Fixture with the path it came from
// and any error encountered reading/parsing the YAML.
type FixtureWithMetadata struct {
	Fixture  *Fixture
	FilePath string
	Error    error
}

// ListFixtures reads every *.yaml/*.yml file under dir (recursing into
// subdirectories) or, if dir names a single file, just that file.
func ListFixtures(dir string) []*FixtureWithMetadata {
	fi, err := os.Stat(dir)
	if err != nil {
		return []*FixtureWithMetadata{{FilePath: dir, Error: err}}
	}
	if !fi.IsDir() {
		f, err := parseFixtureFile(dir)
		return []*FixtureWithMetadata{{Fixture: f, FilePath: dir, Error: err}}
	}

	es, err := os.ReadDir(dir)
	if err != nil {
		return []*FixtureWithMetadata{{FilePath: dir, Error: err}}
	}
	var out []*FixtureWithMetadata
	for _, e := range es {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			out = append(out, ListFixtures(path)...)
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		f, err := parseFixtureFile(path)
		out = append(out, &FixtureWithMetadata{Fixture: f, FilePath: path, Error: err})
	}
	return out
}

func parseFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &Fixture{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Result is one fixture's outcome.
type Result struct {
	FixturePath string
	Error       error
	Got         map[string]any
	Want        map[string]any
}

func (r *Result) String() string {
	if r.Error != nil {
		return fmt.Sprintf("Failed %v:\n    %v", r.FixturePath, r.Error)
	}
	if !reflect.DeepEqual(r.Got, r.Want) {
		return fmt.Sprintf("Failed %v:\n    want: %#v\n    got:  %#v", r.FixturePath, r.Want, r.Got)
	}
	return fmt.Sprintf("Passed %v", r.FixturePath)
}

// Tester runs a batch of loaded fixtures.
type Tester struct {
	Fixtures []*FixtureWithMetadata
}

func (t *Tester) Run() []*Result {
	var rs []*Result
	for _, f := range t.Fixtures {
		rs = append(rs, runFixture(f))
	}
	return rs
}

func runFixture(f *FixtureWithMetadata) *Result {
	if f.Error != nil {
		return &Result{FixturePath: f.FilePath, Error: f.Error}
	}

	table, captured, err := Compile(f.Fixture.Spec)
	if err != nil {
		return &Result{FixturePath: f.FilePath, Error: fmt.Errorf("compiling fixture spec: %w", err)}
	}

	_, perr := dispatch.ParseTask([]byte(f.Fixture.Input), table)
	if perr != nil {
		return &Result{FixturePath: f.FilePath, Error: fmt.Errorf("parse failed: %w", perr)}
	}

	// Round-trip the resolved tree through YAML so it carries the same
	// dynamic types ([]any for lists) as a Want decoded from a fixture.
	b, err := yaml.Marshal(Resolve(captured))
	if err != nil {
		return &Result{FixturePath: f.FilePath, Error: err}
	}
	var got map[string]any
	if err := yaml.Unmarshal(b, &got); err != nil {
		return &Result{FixturePath: f.FilePath, Error: err}
	}
	return &Result{
		FixturePath: f.FilePath,
		Got:         got,
		Want:        f.Fixture.Want,
	}
}
