// Package config provides configuration management for the confpipe CLI.
//
// This package handles loading and validating the confpipe tool's own
// settings. It is distinct from the schemas and profiles the tool resolves,
// which are handled by the schema and profile packages.
//
// # Configuration File
//
// config.yaml is searched in the current directory, then in
// $XDG_CONFIG_HOME/confpipe (or CONFPIPE_CONFIG_DIR when set):
//
//	version: 1
//	schema: confpipe.yaml
//	profile_dir: profiles
//	env_file: .env          # optional
//	namespaces: [net, db]   # empty keeps every tagged key
//	strict: false
//	output_format: json     # json, yaml, toml or env
//
// Every key can be overridden from the environment with the CONFPIPE_
// prefix, e.g. CONFPIPE_STRICT=true. Command-line flags win over both.
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("") // search default locations
//
// An explicit path that does not exist is an error marked with
// errors.ErrNotFound. Loaded configurations are validated automatically;
// failures are marked with errors.ErrInvalidConfig and list every
// [FieldError].
package config
