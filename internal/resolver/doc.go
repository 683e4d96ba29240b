// Package resolver expands stage templates into the resolved stage map.
//
// Resolution runs in two passes. The instantiation pass copies every template
// once per target, merges the target's overrides, substitutes the @{target}
// token in variable values and qualifies before/after names. The linking pass
// runs once every stage of every target exists: it replaces whole-value
// references of the form @{Stage.Var} with the sibling's value, following
// chains in dependency order, and then substitutes ${Var} placeholders in the
// stage's own command and post actions.
//
// Any failure aborts the whole resolution and no partial map is returned.
package resolver
