package spec

import (
	"fmt"

	gslerr "github.com/globbie/gsl-go/error"
)

// Validate checks a Table's internal consistency before any byte of
// input is consumed. Violations here are programmer errors, not input
// errors — callers are expected to call Validate once, at table
// construction time, and treat a non-nil result as a bug to fix rather
// than a condition to recover from at runtime.
//
// Validate returns on the first violation found rather than
// accumulating every problem in the table. A violation is reported as a
// *error.Error of Kind Format whose Cause describes it.
func Validate(t Table) error {
	seenValidator := map[Flavour]bool{}
	seenDefault := map[Flavour]bool{}
	seenImplied := map[Flavour]bool{}

	for i, s := range t {
		if err := validateOne(s); err != nil {
			return gslerr.Wrap(gslerr.Format, 0, fmt.Errorf("spec[%d]: %w", i, err))
		}

		switch s.Role {
		case RoleValidator:
			if seenValidator[s.Flavour] {
				return gslerr.Wrap(gslerr.Format, 0, fmt.Errorf("spec[%d]: more than one validator for flavour %v", i, s.Flavour))
			}
			seenValidator[s.Flavour] = true
		case RoleDefault:
			if seenDefault[s.Flavour] {
				return gslerr.Wrap(gslerr.Format, 0, fmt.Errorf("spec[%d]: more than one default for flavour %v", i, s.Flavour))
			}
			seenDefault[s.Flavour] = true
		case RoleImplied:
			if seenImplied[s.Flavour] {
				return gslerr.Wrap(gslerr.Format, 0, fmt.Errorf("spec[%d]: more than one implied spec for flavour %v", i, s.Flavour))
			}
			seenImplied[s.Flavour] = true
		}
	}
	return nil
}

func validateOne(s *FieldSpec) error {
	if err := validateNamePresence(s); err != nil {
		return err
	}
	switch s.Role {
	case RoleNamed:
		return validateNamedAction(s)
	case RoleDefault:
		return validateDefault(s)
	case RoleImplied:
		return validateImplied(s)
	case RoleValidator:
		return validateValidator(s)
	case RoleListItem:
		return validateListItem(s)
	default:
		return fmt.Errorf("unknown role %v", s.Role)
	}
}

func validateNamePresence(s *FieldSpec) error {
	requiresNoName := s.Role == RoleDefault || s.Role == RoleImplied ||
		s.Role == RoleValidator || s.Role == RoleListItem
	if requiresNoName && s.Name != nil {
		return fmt.Errorf("role %v must not have a name", s.Role)
	}
	if !requiresNoName && s.Name == nil {
		return fmt.Errorf("role %v requires a name", s.Role)
	}
	return nil
}

func validateNamedAction(s *FieldSpec) error {
	switch s.Action.(type) {
	case BufferAction, RunAction, ParseAction:
		return validateActionShape(s)
	case ValidateAction:
		return fmt.Errorf("named spec %q must not use ValidateAction (that is the validator's action)", s.Name)
	default:
		return fmt.Errorf("named spec %q has no action", s.Name)
	}
}

// validateDefault: action=run, obj present, no name, no flavour-irrelevant
// flags — a default spec must be a plain RunAction with Selector=false.
func validateDefault(s *FieldSpec) error {
	if s.Flavour.IsArray() {
		return fmt.Errorf("array flavour %v must not carry a default spec", s.Flavour)
	}
	run, ok := s.Action.(RunAction)
	if !ok {
		return fmt.Errorf("default spec must use RunAction")
	}
	if run.Obj == nil {
		return fmt.Errorf("default spec's RunAction.Obj must be set")
	}
	if run.Run == nil {
		return fmt.Errorf("default spec's RunAction.Run must be set")
	}
	if s.Selector {
		return fmt.Errorf("default spec must not be flagged selector")
	}
	return nil
}

// validateImplied: buffer -> no obj; run -> obj present; never default,
// validator, or list-item (those are separate roles, already exclusive by
// construction, but Selector must also be false).
func validateImplied(s *FieldSpec) error {
	switch a := s.Action.(type) {
	case BufferAction:
		if err := validateBuffer(a); err != nil {
			return err
		}
	case RunAction:
		if a.Obj == nil {
			return fmt.Errorf("implied RunAction.Obj must be set")
		}
		if a.Run == nil {
			return fmt.Errorf("implied RunAction.Run must be set")
		}
	default:
		return fmt.Errorf("implied spec must use BufferAction or RunAction")
	}
	if s.Selector {
		return fmt.Errorf("implied spec must not be flagged selector")
	}
	return nil
}

func validateValidator(s *FieldSpec) error {
	v, ok := s.Action.(ValidateAction)
	if !ok {
		return fmt.Errorf("validator spec must use ValidateAction")
	}
	if v.Obj == nil {
		return fmt.Errorf("validator ValidateAction.Obj must be set")
	}
	if v.Validate == nil {
		return fmt.Errorf("validator ValidateAction.Validate must be set")
	}
	if s.Selector {
		return fmt.Errorf("validator spec must not be flagged selector")
	}
	return nil
}

func validateListItem(s *FieldSpec) error {
	if s.Alloc == nil {
		return fmt.Errorf("list-item spec requires Alloc")
	}
	if s.Action != nil {
		return fmt.Errorf("list-item spec must not set Action; use NewItemTable for record arrays")
	}
	if s.NewItemTable != nil && s.Append == nil {
		return fmt.Errorf("list-item spec with NewItemTable requires Append")
	}
	if s.Selector {
		return fmt.Errorf("list-item spec must not be flagged selector")
	}
	return nil
}

func validateActionShape(s *FieldSpec) error {
	switch a := s.Action.(type) {
	case BufferAction:
		return validateBuffer(a)
	case RunAction:
		if a.Run == nil {
			return fmt.Errorf("named spec %q: RunAction.Run must be set", s.Name)
		}
	case ParseAction:
		if a.Parse == nil {
			return fmt.Errorf("named spec %q: ParseAction.Parse must be set", s.Name)
		}
	}
	return nil
}

func validateBuffer(a BufferAction) error {
	if len(a.Buf) == 0 {
		return fmt.Errorf("buffer action requires a non-empty buffer")
	}
	if a.Len == nil {
		return fmt.Errorf("buffer action requires a length slot")
	}
	if *a.Len != 0 {
		return fmt.Errorf("buffer action's length slot must start at 0")
	}
	return nil
}
