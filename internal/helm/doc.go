// Package helm installs, upgrades and uninstalls Helm releases on a target
// cluster from in-memory kubeconfig bytes.
//
// Charts are resolved either from a local path or from a chart repository;
// downloaded archives are removed once loaded. Values are the merge of an
// optional values file and inline values, inline taking precedence.
package helm
