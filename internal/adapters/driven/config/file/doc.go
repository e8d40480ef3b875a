// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in a TOML file, by default ~/.paperdex/config.toml.
// Keys use dot notation ("chunking.size") and are written back as nested tables.
package file
