// Package types defines the Store interfaces, entity types, and standard
// error values for the tangle knowledge-graph storage system.
package types
