// Package cli contains the command line interface for tdict.
//
// # Commands
//
//	tdict eval  --schema FILE [--data FILE|-] [--set KEY=VALUE]... [--output json|yaml] [--indent N]
//	tdict keys  --schema FILE
//	tdict funcs [PATTERN]
//	tdict repl  [--data FILE] [--set KEY=VALUE]...
//	tdict init  [--force]
//
// Schema and data documents may be JSON or YAML. Mapping order is kept from
// the schema through to the output.
//
// # Configuration
//
// Global flag defaults are read from two files in the user configuration
// directory (for example ~/.config/tdict): config.json, a flat JSON object
// keyed by flag name, and config, a YAML document whose "config" mapping
// holds flag values:
//
//	config:
//	  log-level: debug
//	  log_format: text
//
// Flag names may use hyphens or underscores. Command line flags override
// configuration values. tdict init writes the current values to the YAML
// file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tdict .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: a pprof
//     directory in the tdict cache directory)
package cli
