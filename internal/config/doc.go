// Package config loads the console configuration from a YAML file with
// ${VAR} environment expansion, applying defaults for anything unset.
// A missing config file is not an error: the console runs entirely on
// defaults, with VAULT_URL overriding the service address.
package config
