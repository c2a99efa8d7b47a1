package helm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/storage/driver"
)

// ChartLoader resolves a Chart to a loaded chart.
type ChartLoader func(c Chart) (*chart.Chart, error)

// Client provides Helm operations using in-memory kubeconfig.
type Client struct {
	namespace    string
	actionConfig *action.Configuration
	loadChart    ChartLoader
}

// NewClient creates a Helm client from kubeconfig bytes. Helm debug output
// goes to the logger at V(1).
func NewClient(kubeconfig []byte, namespace string, logger logr.Logger) (*Client, error) {
	actionConfig := new(action.Configuration)
	restGetter := NewInMemoryRESTClientGetter(kubeconfig, namespace)

	debug := func(format string, v ...interface{}) {
		logger.V(1).Info(fmt.Sprintf(format, v...), "namespace", namespace)
	}
	if err := actionConfig.Init(restGetter, namespace, "secret", debug); err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}

	return &Client{
		namespace:    namespace,
		actionConfig: actionConfig,
		loadChart:    LoadChart,
	}, nil
}

// WithChartLoader replaces how charts are resolved.
func (c *Client) WithChartLoader(l ChartLoader) *Client {
	c.loadChart = l
	return c
}

// Namespace returns the namespace releases are installed in.
func (c *Client) Namespace() string {
	return c.namespace
}

// InstallOrUpgrade installs a chart or upgrades it if the release exists,
// waiting up to timeout for its resources to be ready.
func (c *Client) InstallOrUpgrade(ctx context.Context, ch Chart, timeout time.Duration) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	values, err := ch.ResolvedValues()
	if err != nil {
		return err
	}

	loaded, err := c.loadChart(ch)
	if err != nil {
		return fmt.Errorf("failed to load chart: %w", err)
	}

	exists, err := c.ReleaseExists(ch.ReleaseName)
	if err != nil {
		return err
	}
	if !exists {
		_, err = c.install(ctx, ch, loaded, values, timeout)
	} else {
		_, err = c.upgrade(ctx, ch, loaded, values, timeout)
	}
	return err
}

func (c *Client) install(ctx context.Context, ch Chart, loaded *chart.Chart, values Values, timeout time.Duration) (*release.Release, error) {
	installClient := action.NewInstall(c.actionConfig)
	installClient.ReleaseName = ch.ReleaseName
	installClient.Namespace = c.namespace
	installClient.CreateNamespace = true
	installClient.Version = ch.Version
	installClient.Wait = true
	installClient.Timeout = timeout

	rel, err := installClient.RunWithContext(ctx, loaded, values)
	if err != nil {
		return nil, fmt.Errorf("failed to install release %s: %w", ch.ReleaseName, err)
	}
	return rel, nil
}

func (c *Client) upgrade(ctx context.Context, ch Chart, loaded *chart.Chart, values Values, timeout time.Duration) (*release.Release, error) {
	upgradeClient := action.NewUpgrade(c.actionConfig)
	upgradeClient.Namespace = c.namespace
	upgradeClient.Version = ch.Version
	upgradeClient.Wait = true
	upgradeClient.Timeout = timeout
	upgradeClient.ReuseValues = false

	rel, err := upgradeClient.RunWithContext(ctx, ch.ReleaseName, loaded, values)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade release %s: %w", ch.ReleaseName, err)
	}
	return rel, nil
}

// Uninstall removes a release. A release that does not exist is not an error.
func (c *Client) Uninstall(releaseName string, timeout time.Duration) error {
	uninstallClient := action.NewUninstall(c.actionConfig)
	uninstallClient.Wait = true
	uninstallClient.Timeout = timeout

	_, err := uninstallClient.Run(releaseName)
	if err != nil && !errors.Is(err, driver.ErrReleaseNotFound) {
		return fmt.Errorf("failed to uninstall release %s: %w", releaseName, err)
	}
	return nil
}

// ReleaseExists checks if a release exists.
func (c *Client) ReleaseExists(releaseName string) (bool, error) {
	histClient := action.NewHistory(c.actionConfig)
	histClient.Max = 1
	_, err := histClient.Run(releaseName)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, driver.ErrReleaseNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to read history of release %s: %w", releaseName, err)
}

// LoadChart loads a chart from its local path or downloads it from its
// repository into a throwaway cache.
func LoadChart(c Chart) (*chart.Chart, error) {
	if c.Path != "" {
		return loader.Load(c.Path)
	}

	cacheDir, err := os.MkdirTemp("", "engine-chart-")
	if err != nil {
		return nil, fmt.Errorf("failed to create chart cache: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(cacheDir)
	}()

	settings := cli.New()
	settings.RepositoryCache = cacheDir
	settings.RepositoryConfig = filepath.Join(cacheDir, "repositories.yaml")

	opts := action.ChartPathOptions{RepoURL: c.RepoURL, Version: c.Version}
	chartPath, err := opts.LocateChart(c.Name, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart %s from repo %s: %w", c.Name, c.RepoURL, err)
	}

	return loader.Load(chartPath)
}
