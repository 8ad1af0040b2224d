// Package connectors holds document source implementations. Each
// connector knows how to load and chunk documents from a specific
// source type; filesystem is currently the only one.
package connectors
