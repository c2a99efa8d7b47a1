// Package hcloud backs the cloud provider and the cluster lifecycle with the
// Hetzner Cloud API.
//
// A cluster owns a private network, a firewall and a spread placement group,
// all tagged with the cluster label. Creating a cluster ensures those exist,
// pausing it powers its servers off, and deleting it removes every resource
// carrying the label. Calls failing on a locked resource are retried.
package hcloud
