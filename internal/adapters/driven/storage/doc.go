// Package storage holds helpers shared by the vector index persistence formats.
//
// Every format writes into a fresh sibling directory and renames it over
// the final path, so a reader never observes a half-written index.
package storage
