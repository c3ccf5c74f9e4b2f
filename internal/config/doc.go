// Package config defines the format-agnostic data model for the static
// declarative data the engine operates over: variable declarations, UI
// pages, binding sets, and per-configuration equation and secondary-module
// declarations. Format-specific loaders (see hcladapter) translate their
// input into these types.
package config
