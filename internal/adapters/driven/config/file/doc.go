// Package file provides a TOML-backed implementation of the ConfigStore
// port. Configuration lives in ~/.strata/config.toml.
package file
