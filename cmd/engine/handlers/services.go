package handlers

import (
	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/config"
	"github.com/shadracnicholas/engine/internal/helm"
	"github.com/shadracnicholas/engine/internal/platform/docker"
	"github.com/shadracnicholas/engine/internal/service"
	"github.com/shadracnicholas/engine/internal/util/ptr"
)

// services converts the environment services into deployable units,
// grouped by kind in declaration order.
func services(env *config.EnvironmentConfig, timeouts *config.Timeouts, images *docker.BuildPlatform) (databases, containers, routers []action.DeploymentAction) {
	for _, svc := range env.Services {
		opts := service.Options{
			Name:            svc.Name,
			Chart:           svc.HelmChart(),
			Selector:        svc.Selector,
			HelmTimeout:     timeouts.Helm,
			DeleteTimeout:   timeouts.Delete,
			PauseTimeout:    timeouts.Pause,
			ReportFrequency: timeouts.ReportFrequency,
		}

		switch svc.Kind {
		case config.KindDatabase:
			databases = append(databases, service.NewDatabase(svc.ServiceID(), opts))
		case config.KindRouter:
			routers = append(routers, service.NewRouter(svc.ServiceID(), svc.Domains, opts))
		case config.KindContainer:
			opts.Chart.Values = helm.Merge(helm.Values{"image": svc.Image}, opts.Chart.Values)
			c := service.NewContainer(svc.ServiceID(), svc.Image, opts)
			if svc.Replicas > 0 {
				c.Replicas = svc.Replicas
			}
			if images != nil {
				c.Images = images
			}
			containers = append(containers, c)
		}
	}
	return databases, containers, routers
}

// buildRequests lists the images to build before deploying.
func buildRequests(env *config.EnvironmentConfig) []docker.BuildRequest {
	var out []docker.BuildRequest
	for _, svc := range env.Services {
		if svc.Build == nil {
			continue
		}
		args := make(map[string]*string, len(svc.Build.Args))
		for k, v := range svc.Build.Args {
			args[k] = ptr.To(v)
		}
		out = append(out, docker.BuildRequest{
			Application: svc.Name,
			ContextDir:  svc.Build.ContextDir,
			Dockerfile:  svc.Build.Dockerfile,
			Image:       svc.Image,
			BuildArgs:   args,
		})
	}
	return out
}
