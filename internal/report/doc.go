// Package report provides deployment reporters narrating the progress of a
// long deployment through the engine logger.
package report
