package resolver

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

// SchemaError reports a target override that uses keys other than
// variables, command and post.
type SchemaError struct {
	Stage string
	Keys  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("stage %q: unrecognized override keys [%s]", e.Stage, strings.Join(e.Keys, ", "))
}

// TargetNameError reports a target whose name contains the qualified-name
// separator, which would make its stage names ambiguous.
type TargetNameError struct {
	Target string
}

func (e *TargetNameError) Error() string {
	return fmt.Sprintf("target %q: name must not contain %q", e.Target, nodeid.Separator)
}

// ReferenceKind classifies a ReferenceError.
type ReferenceKind string

const (
	// UnknownDependency is a before/after entry naming a stage that was not instantiated.
	UnknownDependency ReferenceKind = "unknown dependency"
	// NoSuchStage is a cross reference to a stage missing from the target.
	NoSuchStage ReferenceKind = "no such stage"
	// MissingVariable is a cross reference or placeholder naming an undefined variable.
	MissingVariable ReferenceKind = "missing variable"
	// ReferenceCycle is a set of cross references that depend on each other.
	ReferenceCycle ReferenceKind = "reference cycle"
)

// ReferenceError reports a reference that cannot be resolved.
type ReferenceError struct {
	Kind ReferenceKind
	// Stage is the qualified name of the stage holding the reference.
	Stage string
	// Ref is the referenced qualified stage, or the variable name for
	// MissingVariable.
	Ref string
	// Available lists the qualified stages known at the time of the failure.
	Available []string
	// Cycle lists "stage.variable" pairs caught in a reference cycle.
	Cycle []string
}

func (e *ReferenceError) Error() string {
	switch e.Kind {
	case NoSuchStage, UnknownDependency:
		return fmt.Sprintf("stage %q: %s: %q. Available stages: [%s]",
			e.Stage, e.Kind, e.Ref, strings.Join(e.Available, ", "))
	case ReferenceCycle:
		return fmt.Sprintf("%s between [%s]", e.Kind, strings.Join(e.Cycle, ", "))
	default:
		return fmt.Sprintf("stage %q: %s %q", e.Stage, e.Kind, e.Ref)
	}
}
