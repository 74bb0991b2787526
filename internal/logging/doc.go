// Package logging builds the process-wide zap logger from configuration.
//
// Level and format come from the logging section of the config file; the
// "service" field is stamped on every entry so aggregated logs can be
// filtered by origin.
package logging
