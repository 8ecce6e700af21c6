package fhirvs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gofhir/fhirpath"
)

// ErrInvalidValueSet indicates a ValueSet that violates an R4 ValueSet invariant.
var ErrInvalidValueSet = errors.New("invalid ValueSet")

// constraint is an R4 ValueSet invariant evaluated from the resource root.
type constraint struct {
	Key   string
	Human string
	Expr  string
}

// valueSetConstraints are the error-level invariants of the R4 ValueSet
// profile that bear on membership.
var valueSetConstraints = []constraint{
	{
		Key:   "vsd-1",
		Human: "A value set include/exclude SHALL have a value set or a system",
		Expr:  "compose.include.all(valueSet.exists() or system.exists())",
	},
	{
		Key:   "vsd-2",
		Human: "A value set with concepts or filters SHALL include a system",
		Expr:  "compose.include.all((concept.exists() or filter.exists()) implies system.exists())",
	},
	{
		Key:   "vsd-3",
		Human: "Cannot have both concept and filter",
		Expr:  "compose.include.all(concept.empty() or filter.empty())",
	},
	{
		Key:   "vsd-6",
		Human: "SHALL have a code or a display",
		Expr:  "expansion.contains.all(code.exists() or display.exists())",
	},
	{
		Key:   "vsd-10",
		Human: "Must have a system if a code is present",
		Expr:  "expansion.contains.all(code.empty() or system.exists())",
	},
}

var (
	compileOnce sync.Once
	compiled    []*fhirpath.Expression
	compileErr  error
)

func compileConstraints() ([]*fhirpath.Expression, error) {
	compileOnce.Do(func() {
		compiled = make([]*fhirpath.Expression, 0, len(valueSetConstraints))
		for _, c := range valueSetConstraints {
			expr, err := fhirpath.Compile(c.Expr)
			if err != nil {
				compileErr = fmt.Errorf("failed to compile FHIRPath expression '%s': %w", c.Expr, err)
				return
			}
			compiled = append(compiled, expr)
		}
	})
	return compiled, compileErr
}

// checkConstraints evaluates the ValueSet invariants against the raw
// resource and returns every violation joined.
func checkConstraints(data []byte) error {
	exprs, err := compileConstraints()
	if err != nil {
		return err
	}

	var errs []error
	for i, expr := range exprs {
		c := valueSetConstraints[i]
		result, err := expr.Evaluate(data)
		if err != nil {
			return fmt.Errorf("failed to evaluate FHIRPath expression '%s': %w", c.Expr, err)
		}

		// Empty means not applicable.
		if result.Empty() {
			continue
		}
		if ok, err := result.ToBoolean(); err == nil && !ok {
			errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidValueSet, c.Key, c.Human))
		}
	}
	return errors.Join(errs...)
}
