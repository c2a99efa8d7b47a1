package helm

import (
	"errors"
	"fmt"
)

// Chart identifies a chart and the release it is installed as.
type Chart struct {
	// ReleaseName is the Helm release name.
	ReleaseName string
	// Path is a local chart directory or archive. When set, RepoURL is ignored.
	Path string
	// RepoURL is the chart repository URL.
	RepoURL string
	// Name is the chart name in the repository.
	Name string
	// Version pins the chart version. Empty means latest.
	Version string
	// ValuesFile is an optional values file merged under Values.
	ValuesFile string
	// Values are inline values.
	Values Values
}

// Validate checks the chart can be resolved.
func (c Chart) Validate() error {
	if c.ReleaseName == "" {
		return errors.New("release name is required")
	}
	if c.Path == "" && (c.RepoURL == "" || c.Name == "") {
		return fmt.Errorf("chart %s: either a path or a repository URL and chart name are required", c.ReleaseName)
	}
	return nil
}

// DisplayName is the chart reference used in messages.
func (c Chart) DisplayName() string {
	switch {
	case c.Path != "":
		return c.Path
	case c.Version != "":
		return c.Name + "@" + c.Version
	default:
		return c.Name
	}
}

// ResolvedValues merges the values file and the inline values.
func (c Chart) ResolvedValues() (Values, error) {
	fromFile, err := LoadValuesFile(c.ValuesFile)
	if err != nil {
		return nil, err
	}
	return Merge(fromFile, c.Values), nil
}
