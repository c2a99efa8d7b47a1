// Package naming provides consistent names for cluster resources,
// environment namespaces and workspace archives.
//
// Infrastructure resources are named after the cluster so a cluster owns
// exactly one network, firewall and placement group.
package naming
