// Package loader reads and writes the documents exchanged by stagegrid.
//
// Stage template and target documents may be written as JSON, YAML or HCL;
// the format is chosen from the file extension. JSON and YAML documents are
// validated against embedded JSON Schemas before being decoded. Override keys
// are deliberately left open by the target schema so that the resolver can
// report unrecognized keys with stage context.
//
// The merged and analyzed documents are always written as indented JSON and
// may be read back from JSON or YAML.
package loader
