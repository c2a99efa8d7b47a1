// Package task runs the two kinds of engine work: cluster lifecycle
// (InfrastructureTask) and environment deployments (EnvironmentTask).
package task
