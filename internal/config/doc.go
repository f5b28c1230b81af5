// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Variables can also come from a dotenv file loaded with LoadEnvFile before the
// YAML is read; values already present in the environment win.
package config
