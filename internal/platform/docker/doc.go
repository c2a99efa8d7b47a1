// Package docker builds application images with the Docker daemon and
// checks registry credentials.
package docker
