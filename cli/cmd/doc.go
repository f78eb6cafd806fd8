// Package cmd implements the argx subcommands.
//
// Every command reads expressions from its positional arguments and from
// --file sources, one expression per line, and writes to the streams stored
// in its context by [WithStreams].
package cmd

var (
	// CacheIdentifier is the kong variable holding the runtime cache
	// directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the
	// configuration file.
	ConfigIdentifier = "config"

	// MaxRowsIdentifier is the kong variable holding the default row limit.
	MaxRowsIdentifier = "maxRows"
)
