package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pensim/plan-comparator/internal/calculation"
	"github.com/pensim/plan-comparator/internal/domain"
)

// InputParser handles parsing of simulation configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a configuration from a YAML file, applies defaults,
// and validates it. Validation failure means the run never starts.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var cfg domain.Configuration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyDefaults()

	if err := calculation.ValidateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ExampleConfiguration returns a ready-to-run configuration matching the
// shipped example YAML.
func (ip *InputParser) ExampleConfiguration() *domain.Configuration {
	cfg := &domain.Configuration{
		Career: domain.CareerProfile{
			StartingSalary: mustDecimal("57000"),
			HireAge:        30,
			RetirementAge:  65,
			DeathAge:       87,
		},
		Simulation: domain.SimulationSettings{
			Trials:         200,
			Seed:           42,
			WithdrawalRate: mustDecimal("0.04"),
		},
		Data: domain.DataSettings{
			ObservationsFile: "data/observations.csv",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}
