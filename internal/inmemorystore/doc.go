// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. State lives only for one launch.
package inmemorystore
