// Package output turns aggregated simulation results into the surfaces the
// reporting layer consumes. Presentation proper (tables, charts, narrative)
// lives downstream; this is the hand-off format.
package output

import (
	"fmt"

	"github.com/pensim/plan-comparator/internal/calculation"
)

// Formatter renders a run result as a byte slice. Implementations should be
// pure: deterministic output, no side effects.
type Formatter interface {
	Format(result *calculation.RunResult) ([]byte, error)
	// Name returns the identifier used on the CLI.
	Name() string
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) (Formatter, error) {
	for _, f := range builtInFormatters {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}
