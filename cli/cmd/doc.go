// Package cmd implements the tdict subcommands.
//
// Each command is a kong command struct with a Run(context.Context) method.
// The kong context is stored in the [context.Context] with [WithContext] so
// commands can reach their output writers and the application variables.
package cmd

var (
	// CacheIdentifier is the kong variable holding the path of the runtime
	// cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"
)

// ConfigKey is the top-level YAML mapping key that holds flag values in the
// configuration file.
const ConfigKey = "config"
