// Package config handles application configuration loading and validation.
//
// Configuration is read from a YAML file, overlaid with environment
// variables, and validated using struct tags. Every field has a working
// default for the reference Bordeaux deployment, so the service runs
// with no file at all.
package config
