package events

// InfrastructureStep is a step of the cluster lifecycle pipeline.
type InfrastructureStep string

// Infrastructure steps.
const (
	InfrastructureLoadConfiguration          InfrastructureStep = "LoadConfiguration"
	InfrastructureValidateSystemRequirements InfrastructureStep = "ValidateSystemRequirements"
	InfrastructureRetrieveClusterConfig      InfrastructureStep = "RetrieveClusterConfig"
	InfrastructureCreate                     InfrastructureStep = "Create"
	InfrastructureCreated                    InfrastructureStep = "Created"
	InfrastructureCreateError                InfrastructureStep = "CreateError"
	InfrastructurePause                      InfrastructureStep = "Pause"
	InfrastructurePaused                     InfrastructureStep = "Paused"
	InfrastructurePauseError                 InfrastructureStep = "PauseError"
	InfrastructureDelete                     InfrastructureStep = "Delete"
	InfrastructureDeleted                    InfrastructureStep = "Deleted"
	InfrastructureDeleteError                InfrastructureStep = "DeleteError"
)

// EnvironmentStep is a step of the environment (workload) pipeline.
type EnvironmentStep string

// Environment steps.
const (
	EnvironmentBuild       EnvironmentStep = "Build"
	EnvironmentBuilt       EnvironmentStep = "Built"
	EnvironmentBuildError  EnvironmentStep = "BuildError"
	EnvironmentDeploy      EnvironmentStep = "Deploy"
	EnvironmentDeployed    EnvironmentStep = "Deployed"
	EnvironmentDeployError EnvironmentStep = "DeployError"
	EnvironmentPause       EnvironmentStep = "Pause"
	EnvironmentPaused      EnvironmentStep = "Paused"
	EnvironmentPauseError  EnvironmentStep = "PauseError"
	EnvironmentDelete      EnvironmentStep = "Delete"
	EnvironmentDeleted     EnvironmentStep = "Deleted"
	EnvironmentDeleteError EnvironmentStep = "DeleteError"
	EnvironmentCancel      EnvironmentStep = "Cancel"
	EnvironmentCancelled   EnvironmentStep = "Cancelled"
)

// Stage is the pipeline phase an event belongs to. Exactly one of the
// infrastructure or environment step is set.
type Stage struct {
	infrastructure InfrastructureStep
	environment    EnvironmentStep
}

// InfrastructureStage wraps an infrastructure step.
func InfrastructureStage(step InfrastructureStep) Stage {
	return Stage{infrastructure: step}
}

// EnvironmentStage wraps an environment step.
func EnvironmentStage(step EnvironmentStep) Stage {
	return Stage{environment: step}
}

// Infrastructure returns the infrastructure step, if this is an infrastructure stage.
func (s Stage) Infrastructure() (InfrastructureStep, bool) {
	return s.infrastructure, s.infrastructure != ""
}

// Environment returns the environment step, if this is an environment stage.
func (s Stage) Environment() (EnvironmentStep, bool) {
	return s.environment, s.environment != ""
}

func (s Stage) String() string {
	switch {
	case s.infrastructure != "":
		return "Infrastructure(" + string(s.infrastructure) + ")"
	case s.environment != "":
		return "Environment(" + string(s.environment) + ")"
	default:
		return "Unknown"
	}
}

var infrastructureErrorSteps = map[InfrastructureStep]InfrastructureStep{
	InfrastructureCreate:      InfrastructureCreateError,
	InfrastructureCreated:     InfrastructureCreateError,
	InfrastructurePause:       InfrastructurePauseError,
	InfrastructurePaused:      InfrastructurePauseError,
	InfrastructureDelete:      InfrastructureDeleteError,
	InfrastructureDeleted:     InfrastructureDeleteError,
	InfrastructureCreateError: InfrastructureCreateError,
	InfrastructurePauseError:  InfrastructurePauseError,
	InfrastructureDeleteError: InfrastructureDeleteError,
}

var environmentErrorSteps = map[EnvironmentStep]EnvironmentStep{
	EnvironmentBuild:       EnvironmentBuildError,
	EnvironmentBuilt:       EnvironmentBuildError,
	EnvironmentBuildError:  EnvironmentBuildError,
	EnvironmentDeploy:      EnvironmentDeployError,
	EnvironmentDeployed:    EnvironmentDeployError,
	EnvironmentDeployError: EnvironmentDeployError,
	EnvironmentPause:       EnvironmentPauseError,
	EnvironmentPaused:      EnvironmentPauseError,
	EnvironmentPauseError:  EnvironmentPauseError,
	EnvironmentDelete:      EnvironmentDeleteError,
	EnvironmentDeleted:     EnvironmentDeleteError,
	EnvironmentDeleteError: EnvironmentDeleteError,
}

// ToError returns the error stage matching s. Stages without an error
// counterpart are returned unchanged.
func (s Stage) ToError() Stage {
	if step, ok := s.Infrastructure(); ok {
		if errStep, found := infrastructureErrorSteps[step]; found {
			return InfrastructureStage(errStep)
		}
		return s
	}
	if step, ok := s.Environment(); ok {
		if errStep, found := environmentErrorSteps[step]; found {
			return EnvironmentStage(errStep)
		}
	}
	return s
}

// ToCancel returns the cancel stage matching s.
// Infrastructure has no cancel stage so the error stage is used instead.
func (s Stage) ToCancel() Stage {
	if _, ok := s.Environment(); ok {
		return EnvironmentStage(EnvironmentCancel)
	}
	return s.ToError()
}
