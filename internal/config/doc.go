// Package config provides configuration loading and validation for the
// speech service. It handles YAML-based configuration with struct
// validation, environment credential overrides, and defaults.
package config
