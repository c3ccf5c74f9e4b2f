// Package app wires the engine together: it loads static data through a
// config.Loader, freezes the variable catalog and binding store, holds the
// callable registry, and exposes the resolution entry point.
package app
