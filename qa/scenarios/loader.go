package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/parkalloc/core/model"
)

// Expected is the outcome a scenario asserts.
type Expected struct {
	Path         string `yaml:"path"`
	SolverStatus string `yaml:"solver_status,omitempty"`
	Counts       []int  `yaml:"counts"`
}

// Scenario is a facility snapshot with its expected allocation.
type Scenario struct {
	Name           string           `yaml:"name"`
	Description    string           `yaml:"description,omitempty"`
	MinUtilization *float64         `yaml:"min_utilization,omitempty"`
	Facilities     []model.Facility `yaml:"facilities"`
	Expected       Expected         `yaml:"expected"`
}

// Snapshot returns the scenario facilities as a snapshot.
func (s Scenario) Snapshot() model.Snapshot {
	return model.NewSnapshot(s.Facilities)
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
