// Package labels provides consistent labeling for Hetzner Cloud resources.
//
// All labels use the engine.io domain prefix. Resources are created with the
// full label set of a [LabelBuilder] and selected by the cluster label alone.
package labels
