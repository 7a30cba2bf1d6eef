package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

// Operators joining a variable to the result accumulated so far
const (
	OpAnd = "UND"
	OpOr  = "ODER"
)

// MaxVarsPerStep is the largest number of variables one logic step may combine
const MaxVarsPerStep = 6

var (
	ErrMissingStation = errors.New("document has no station name")
	ErrInvalidStep    = errors.New("invalid logic step")
)

// Var is one operand of a logic step
type Var struct {
	Name string `json:"name" yaml:"name"`
	Not  bool   `json:"not" yaml:"not"`
	Op   string `json:"op" yaml:"op"`
}

// Step combines variables into the activity of one phase. Variables fold left:
// result = result <op> var, so the first variable's operator is ignored.
type Step struct {
	Step   int           `json:"step" yaml:"step"`
	Target phase.PhaseID `json:"target" yaml:"target"`
	Vars   []Var         `json:"vars" yaml:"vars"`
}

// Document is the logic configuration of one station as accepted by the server
type Document struct {
	Station string `json:"station" yaml:"station"`
	Logic   []Step `json:"logic" yaml:"logic"`
}

// Normalize trims names, upper-cases operators and defaults empty operators to OpAnd
func (d *Document) Normalize() {
	d.Station = strings.TrimSpace(d.Station)
	for i := range d.Logic {
		step := &d.Logic[i]
		step.Target = phase.PhaseID(strings.TrimSpace(string(step.Target)))
		for j := range step.Vars {
			v := &step.Vars[j]
			v.Name = strings.TrimSpace(v.Name)
			op := strings.ToUpper(strings.TrimSpace(v.Op))
			if op != OpOr {
				op = OpAnd
			}
			v.Op = op
		}
	}
}

// Validate checks the document against the rules of the configuration form
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Station) == "" {
		return ErrMissingStation
	}

	seen := make(map[phase.PhaseID]int, len(d.Logic))
	for i, step := range d.Logic {
		target := phase.PhaseID(strings.TrimSpace(string(step.Target)))
		if !phase.IsKnown(target) {
			return fmt.Errorf("%w %d: unknown target phase %q", ErrInvalidStep, i, step.Target)
		}
		if prev, dup := seen[target]; dup {
			return fmt.Errorf("%w %d: phase %s already configured by step %d", ErrInvalidStep, i, target, prev)
		}
		seen[target] = i

		if len(step.Vars) == 0 || len(step.Vars) > MaxVarsPerStep {
			return fmt.Errorf("%w %d: needs 1 to %d variables, got %d", ErrInvalidStep, i, MaxVarsPerStep, len(step.Vars))
		}
		for j, v := range step.Vars {
			if strings.TrimSpace(v.Name) == "" {
				return fmt.Errorf("%w %d: variable %d has no name", ErrInvalidStep, i, j+1)
			}
			if op := strings.ToUpper(strings.TrimSpace(v.Op)); op != "" && op != OpAnd && op != OpOr {
				return fmt.Errorf("%w %d: variable %s has unknown operator %q", ErrInvalidStep, i, v.Name, v.Op)
			}
		}
	}
	return nil
}

// StepFor returns the step targeting id
func (d *Document) StepFor(id phase.PhaseID) (Step, bool) {
	for _, step := range d.Logic {
		if step.Target == id {
			return step, true
		}
	}
	return Step{}, false
}

// Expression renders the step as readable text, e.g. "A UND NICHT B ODER C"
func (s Step) Expression() string {
	var b strings.Builder
	for i, v := range s.Vars {
		if i > 0 {
			op := strings.ToUpper(v.Op)
			if op != OpOr {
				op = OpAnd
			}
			b.WriteString(" " + op + " ")
		}
		if v.Not {
			b.WriteString("NICHT ")
		}
		b.WriteString(v.Name)
	}
	return b.String()
}

// Evaluate folds the step over values; unknown variables read as false.
// Used for previews only; the server stays the authority on phase activity.
func (s Step) Evaluate(values map[string]bool) bool {
	if len(s.Vars) == 0 {
		return false
	}

	operand := func(v Var) bool {
		val := values[v.Name]
		if v.Not {
			return !val
		}
		return val
	}

	result := operand(s.Vars[0])
	for _, v := range s.Vars[1:] {
		if strings.ToUpper(v.Op) == OpOr {
			result = result || operand(v)
		} else {
			result = result && operand(v)
		}
	}
	return result
}
