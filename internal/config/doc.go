// Package config loads engine requests from YAML and the timeouts tuned
// through environment variables.
//
// A [Request] describes one engine execution: the target cluster, the
// credentials of the providers it talks to and, for environment tasks,
// the services to deploy.
package config
