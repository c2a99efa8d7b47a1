// Package engineerr defines the engine's error model.
//
// Every failure crossing an engine boundary is an *EngineError carrying a
// stable Tag, the events.EventDetails at the time of failure and an optional
// CommandError. CommandError keeps three tiers of detail (safe message, full
// details, environment variables) and only renders the unsafe tiers when a
// caller asks for them with a Verbosity.
package engineerr
