package engineerr

import "fmt"

// Tag is the stable, wire-level classification of an EngineError.
// Values are persisted and exchanged by name: append new tags, never rename.
type Tag int

// Error tags.
const (
	TagUnknown Tag = iota
	TagInvalidEnginePayload
	TagInvalidEngineAPIInputCannotBeDeserialized
	TagMissingRequiredEnvVariable
	TagNoClusterFound
	TagClusterHasNoWorkerNodes
	TagClusterWorkerNodeNotFound
	TagCannotGetWorkspaceDirectory
	TagUnsupportedInstanceType
	TagNotAllowedInstanceType
	TagUnsupportedClusterKind
	TagUnsupportedRegion
	TagUnsupportedZone
	TagCannotRetrieveClusterConfigFile
	TagCannotCreateFile
	TagCannotGetClusterNodes
	TagNotEnoughNodesAvailableToDeployEnvironment
	TagNotEnoughResourcesToDeployEnvironment
	TagCannotUninstallHelmChart
	TagCannotExecuteK8sVersion
	TagCannotDetermineK8sMasterVersion
	TagCannotDetermineK8sRequestedUpgradeVersion
	TagCannotDetermineK8sKubeletWorkerVersion
	TagCannotGetNodeGroupList
	TagCannotGetNodeGroupInfo
	TagNumberOfRequestedMaxNodesIsBelowThanCurrentUsage
	TagCannotDetermineK8sKubeProxyVersion
	TagCannotPauseManagedDatabase
	TagCannotConnectK8sCluster
	TagCannotExecuteK8sAPICustomMetrics
	TagCloudProviderGetLoadBalancer
	TagCloudProviderGetLoadBalancerTags
	TagCloudProviderDeleteLoadBalancer
	TagDoNotRespectCloudProviderBestPractices
	TagCannotFindRequiredBinary
	TagSubnetsCountShouldBeEven
	TagCannotGetOrCreateIAMRole
	TagCannotCopyFilesFromDirectoryToDirectory
	TagCannotPauseClusterTasksAreRunning
	TagTerraformUnknownError
	TagTerraformInvalidCredentials
	TagTerraformAccountBlockedByProvider
	TagTerraformMultipleInterruptsReceived
	TagTerraformNotEnoughPermissions
	TagTerraformWrongState
	TagTerraformResourceDependencyViolation
	TagTerraformInstanceTypeDoesntExist
	TagTerraformInstanceVolumeCannotBeReduced
	TagTerraformConfigFileNotFound
	TagTerraformConfigFileInvalidContent
	TagTerraformCannotDeleteLockFile
	TagTerraformInitError
	TagTerraformValidateError
	TagTerraformPlanError
	TagTerraformApplyError
	TagTerraformDestroyError
	TagTerraformCannotRemoveEntryOut
	TagTerraformErrorWhileExecutingPipeline
	TagTerraformErrorWhileExecutingDestroyPipeline
	TagTerraformContextUnsupportedParameterValue
	TagTerraformCloudProviderQuotasReached
	TagTerraformCloudProviderActivationRequired
	TagTerraformServiceNotActivatedOptInRequired
	TagTerraformWaitingTimeoutResource
	TagTerraformAlreadyExistingResource
	TagTerraformInvalidCIDRBlock
	TagTerraformStateLocked
	TagHelmChartsSetupError
	TagHelmChartsDeployError
	TagHelmChartsUpgradeError
	TagHelmChartUninstallError
	TagHelmHistoryError
	TagHelmDeployTimeout
	TagCannotGetAnyAvailableVPC
	TagUnsupportedVersion
	TagCannotGetSupportedVersions
	TagCannotGetCluster
	TagOnlyOneClusterExpected
	TagClientServiceFailedToStart
	TagClientServiceFailedToDeployBeforeStart
	TagDatabaseFailedToStartAfterSeveralRetries
	TagRouterFailedToDeploy
	TagCloudProviderInformationError
	TagCloudProviderClientInvalidCredentials
	TagCloudProviderAPIMissingInfo
	TagVersionNumberParsingError
	TagNotImplementedError
	TagTaskCancellationRequested
	TagBuilderError
	TagBuilderDockerCannotFindAnyDockerfile
	TagBuilderDockerCannotReadDockerfile
	TagBuilderDockerCannotExtractEnvVarsFromDockerfile
	TagBuilderDockerCannotBuildContainerImage
	TagBuilderDockerCannotListImages
	TagBuilderBuildpackInvalidLanguageFormat
	TagBuilderBuildpackCannotBuildContainerImage
	TagBuilderGetBuildError
	TagBuilderCloningRepositoryError
	TagDockerError
	TagDockerPushImageError
	TagDockerPullImageError
	TagContainerRegistryCannotCreateRepository
	TagContainerRegistryCannotSetRepositoryLifecycle
	TagContainerRegistryCannotGetCredentials
	TagContainerRegistryCannotDeleteImage
	TagContainerRegistryImageDoesntExist
	TagContainerRegistryImageUnreachableAfterPush
	TagContainerRegistryRepositoryDoesntExistInRegistry
	TagContainerRegistryRegistryDoesntExist
	TagContainerRegistryCannotDeleteRepository
	TagContainerRegistryInvalidInformation
	TagContainerRegistryInvalidCredentials
	TagContainerRegistryCannotLinkRegistryToCluster
	TagContainerRegistryCannotCreateRegistry
	TagContainerRegistryCannotDeleteRegistry
	TagContainerRegistryCannotSetRepositoryTags
	TagContainerRegistryUnknownError
	TagKubeconfigFileDoNotPermitToConnectToK8sCluster
	TagKubeconfigSecurityCheckError
	TagDeleteLocalKubeconfigFileError
	TagVaultConnectionError
	TagVaultSecretCouldNotBeRetrieved
	TagVaultSecretCouldNotBeCreatedOrUpdated
	TagVaultSecretCouldNotBeDeleted
	TagJSONDeserializationError
	TagClusterSecretsManipulationError
	TagDNSProviderInformationError
	TagDNSProviderInvalidCredentials
	TagDNSProviderInvalidAPIURL
	TagObjectStorageCannotCreateBucket
	TagObjectStorageCannotPutFileIntoBucket
	TagObjectStorageCannotDeleteFileIntoBucket
	TagObjectStorageCannotDeleteBucket
	TagObjectStorageCannotActivateBucketVersioning
	TagObjectStorageQuotaExceeded
	TagObjectStorageInvalidBucketName
	TagObjectStorageCannotEmptyBucket
	TagObjectStorageCannotTagBucket
	TagObjectStorageCannotGetObjectFile
	TagJobFailure
	TagCannotScaleWorkload
	TagCannotDeleteService
	TagK8sPodsNotTerminated
	TagCannotBuildWorkspaceArchive
	TagK8sDeploymentNotFound
)

var tagNames = [...]string{
	TagUnknown:                                          "Unknown",
	TagInvalidEnginePayload:                             "InvalidEnginePayload",
	TagInvalidEngineAPIInputCannotBeDeserialized:        "InvalidEngineApiInputCannotBeDeserialized",
	TagMissingRequiredEnvVariable:                       "MissingRequiredEnvVariable",
	TagNoClusterFound:                                   "NoClusterFound",
	TagClusterHasNoWorkerNodes:                          "ClusterHasNoWorkerNodes",
	TagClusterWorkerNodeNotFound:                        "ClusterWorkerNodeNotFound",
	TagCannotGetWorkspaceDirectory:                      "CannotGetWorkspaceDirectory",
	TagUnsupportedInstanceType:                          "UnsupportedInstanceType",
	TagNotAllowedInstanceType:                           "NotAllowedInstanceType",
	TagUnsupportedClusterKind:                           "UnsupportedClusterKind",
	TagUnsupportedRegion:                                "UnsupportedRegion",
	TagUnsupportedZone:                                  "UnsupportedZone",
	TagCannotRetrieveClusterConfigFile:                  "CannotRetrieveClusterConfigFile",
	TagCannotCreateFile:                                 "CannotCreateFile",
	TagCannotGetClusterNodes:                            "CannotGetClusterNodes",
	TagNotEnoughNodesAvailableToDeployEnvironment:       "NotEnoughNodesAvailableToDeployEnvironment",
	TagNotEnoughResourcesToDeployEnvironment:            "NotEnoughResourcesToDeployEnvironment",
	TagCannotUninstallHelmChart:                         "CannotUninstallHelmChart",
	TagCannotExecuteK8sVersion:                          "CannotExecuteK8sVersion",
	TagCannotDetermineK8sMasterVersion:                  "CannotDetermineK8sMasterVersion",
	TagCannotDetermineK8sRequestedUpgradeVersion:        "CannotDetermineK8sRequestedUpgradeVersion",
	TagCannotDetermineK8sKubeletWorkerVersion:           "CannotDetermineK8sKubeletWorkerVersion",
	TagCannotGetNodeGroupList:                           "CannotGetNodeGroupList",
	TagCannotGetNodeGroupInfo:                           "CannotGetNodeGroupInfo",
	TagNumberOfRequestedMaxNodesIsBelowThanCurrentUsage: "NumberOfRequestedMaxNodesIsBelowThanCurrentUsage",
	TagCannotDetermineK8sKubeProxyVersion:               "CannotDetermineK8sKubeProxyVersion",
	TagCannotPauseManagedDatabase:                       "CannotPauseManagedDatabase",
	TagCannotConnectK8sCluster:                          "CannotConnectK8sCluster",
	TagCannotExecuteK8sAPICustomMetrics:                 "CannotExecuteK8sApiCustomMetrics",
	TagCloudProviderGetLoadBalancer:                     "CloudProviderGetLoadBalancer",
	TagCloudProviderGetLoadBalancerTags:                 "CloudProviderGetLoadBalancerTags",
	TagCloudProviderDeleteLoadBalancer:                  "CloudProviderDeleteLoadBalancer",
	TagDoNotRespectCloudProviderBestPractices:           "DoNotRespectCloudProviderBestPractices",
	TagCannotFindRequiredBinary:                         "CannotFindRequiredBinary",
	TagSubnetsCountShouldBeEven:                         "SubnetsCountShouldBeEven",
	TagCannotGetOrCreateIAMRole:                         "CannotGetOrCreateIamRole",
	TagCannotCopyFilesFromDirectoryToDirectory:          "CannotCopyFilesFromDirectoryToDirectory",
	TagCannotPauseClusterTasksAreRunning:                "CannotPauseClusterTasksAreRunning",
	TagTerraformUnknownError:                            "TerraformUnknownError",
	TagTerraformInvalidCredentials:                      "TerraformInvalidCredentials",
	TagTerraformAccountBlockedByProvider:                "TerraformAccountBlockedByProvider",
	TagTerraformMultipleInterruptsReceived:              "TerraformMultipleInterruptsReceived",
	TagTerraformNotEnoughPermissions:                    "TerraformNotEnoughPermissions",
	TagTerraformWrongState:                              "TerraformWrongState",
	TagTerraformResourceDependencyViolation:             "TerraformResourceDependencyViolation",
	TagTerraformInstanceTypeDoesntExist:                 "TerraformInstanceTypeDoesntExist",
	TagTerraformInstanceVolumeCannotBeReduced:           "TerraformInstanceVolumeCannotBeReduced",
	TagTerraformConfigFileNotFound:                      "TerraformConfigFileNotFound",
	TagTerraformConfigFileInvalidContent:                "TerraformConfigFileInvalidContent",
	TagTerraformCannotDeleteLockFile:                    "TerraformCannotDeleteLockFile",
	TagTerraformInitError:                               "TerraformInitError",
	TagTerraformValidateError:                           "TerraformValidateError",
	TagTerraformPlanError:                               "TerraformPlanError",
	TagTerraformApplyError:                              "TerraformApplyError",
	TagTerraformDestroyError:                            "TerraformDestroyError",
	TagTerraformCannotRemoveEntryOut:                    "TerraformCannotRemoveEntryOut",
	TagTerraformErrorWhileExecutingPipeline:             "TerraformErrorWhileExecutingPipeline",
	TagTerraformErrorWhileExecutingDestroyPipeline:      "TerraformErrorWhileExecutingDestroyPipeline",
	TagTerraformContextUnsupportedParameterValue:        "TerraformContextUnsupportedParameterValue",
	TagTerraformCloudProviderQuotasReached:              "TerraformCloudProviderQuotasReached",
	TagTerraformCloudProviderActivationRequired:         "TerraformCloudProviderActivationRequired",
	TagTerraformServiceNotActivatedOptInRequired:        "TerraformServiceNotActivatedOptInRequired",
	TagTerraformWaitingTimeoutResource:                  "TerraformWaitingTimeoutResource",
	TagTerraformAlreadyExistingResource:                 "TerraformAlreadyExistingResource",
	TagTerraformInvalidCIDRBlock:                        "TerraformInvalidCIDRBlock",
	TagTerraformStateLocked:                             "TerraformStateLocked",
	TagHelmChartsSetupError:                             "HelmChartsSetupError",
	TagHelmChartsDeployError:                            "HelmChartsDeployError",
	TagHelmChartsUpgradeError:                           "HelmChartsUpgradeError",
	TagHelmChartUninstallError:                          "HelmChartUninstallError",
	TagHelmHistoryError:                                 "HelmHistoryError",
	TagHelmDeployTimeout:                                "HelmDeployTimeout",
	TagCannotGetAnyAvailableVPC:                         "CannotGetAnyAvailableVPC",
	TagUnsupportedVersion:                               "UnsupportedVersion",
	TagCannotGetSupportedVersions:                       "CannotGetSupportedVersions",
	TagCannotGetCluster:                                 "CannotGetCluster",
	TagOnlyOneClusterExpected:                           "OnlyOneClusterExpected",
	TagClientServiceFailedToStart:                       "ClientServiceFailedToStart",
	TagClientServiceFailedToDeployBeforeStart:           "ClientServiceFailedToDeployBeforeStart",
	TagDatabaseFailedToStartAfterSeveralRetries:         "DatabaseFailedToStartAfterSeveralRetries",
	TagRouterFailedToDeploy:                             "RouterFailedToDeploy",
	TagCloudProviderInformationError:                    "CloudProviderInformationError",
	TagCloudProviderClientInvalidCredentials:            "CloudProviderClientInvalidCredentials",
	TagCloudProviderAPIMissingInfo:                      "CloudProviderApiMissingInfo",
	TagVersionNumberParsingError:                        "VersionNumberParsingError",
	TagNotImplementedError:                              "NotImplementedError",
	TagTaskCancellationRequested:                        "TaskCancellationRequested",
	TagBuilderError:                                     "BuilderError",
	TagBuilderDockerCannotFindAnyDockerfile:             "BuilderDockerCannotFindAnyDockerfile",
	TagBuilderDockerCannotReadDockerfile:                "BuilderDockerCannotReadDockerfile",
	TagBuilderDockerCannotExtractEnvVarsFromDockerfile:  "BuilderDockerCannotExtractEnvVarsFromDockerfile",
	TagBuilderDockerCannotBuildContainerImage:           "BuilderDockerCannotBuildContainerImage",
	TagBuilderDockerCannotListImages:                    "BuilderDockerCannotListImages",
	TagBuilderBuildpackInvalidLanguageFormat:            "BuilderBuildpackInvalidLanguageFormat",
	TagBuilderBuildpackCannotBuildContainerImage:        "BuilderBuildpackCannotBuildContainerImage",
	TagBuilderGetBuildError:                             "BuilderGetBuildError",
	TagBuilderCloningRepositoryError:                    "BuilderCloningRepositoryError",
	TagDockerError:                                      "DockerError",
	TagDockerPushImageError:                             "DockerPushImageError",
	TagDockerPullImageError:                             "DockerPullImageError",
	TagContainerRegistryCannotCreateRepository:          "ContainerRegistryCannotCreateRepository",
	TagContainerRegistryCannotSetRepositoryLifecycle:    "ContainerRegistryCannotSetRepositoryLifecycle",
	TagContainerRegistryCannotGetCredentials:            "ContainerRegistryCannotGetCredentials",
	TagContainerRegistryCannotDeleteImage:               "ContainerRegistryCannotDeleteImage",
	TagContainerRegistryImageDoesntExist:                "ContainerRegistryImageDoesntExist",
	TagContainerRegistryImageUnreachableAfterPush:       "ContainerRegistryImageUnreachableAfterPush",
	TagContainerRegistryRepositoryDoesntExistInRegistry: "ContainerRegistryRepositoryDoesntExistInRegistry",
	TagContainerRegistryRegistryDoesntExist:             "ContainerRegistryRegistryDoesntExist",
	TagContainerRegistryCannotDeleteRepository:          "ContainerRegistryCannotDeleteRepository",
	TagContainerRegistryInvalidInformation:              "ContainerRegistryInvalidInformation",
	TagContainerRegistryInvalidCredentials:              "ContainerRegistryInvalidCredentials",
	TagContainerRegistryCannotLinkRegistryToCluster:     "ContainerRegistryCannotLinkRegistryToCluster",
	TagContainerRegistryCannotCreateRegistry:            "ContainerRegistryCannotCreateRegistry",
	TagContainerRegistryCannotDeleteRegistry:            "ContainerRegistryCannotDeleteRegistry",
	TagContainerRegistryCannotSetRepositoryTags:         "ContainerRegistryCannotSetRepositoryTags",
	TagContainerRegistryUnknownError:                    "ContainerRegistryUnknownError",
	TagKubeconfigFileDoNotPermitToConnectToK8sCluster:   "KubeconfigFileDoNotPermitToConnectToK8sCluster",
	TagKubeconfigSecurityCheckError:                     "KubeconfigSecurityCheckError",
	TagDeleteLocalKubeconfigFileError:                   "DeleteLocalKubeconfigFileError",
	TagVaultConnectionError:                             "VaultConnectionError",
	TagVaultSecretCouldNotBeRetrieved:                   "VaultSecretCouldNotBeRetrieved",
	TagVaultSecretCouldNotBeCreatedOrUpdated:            "VaultSecretCouldNotBeCreatedOrUpdated",
	TagVaultSecretCouldNotBeDeleted:                     "VaultSecretCouldNotBeDeleted",
	TagJSONDeserializationError:                         "JsonDeserializationError",
	TagClusterSecretsManipulationError:                  "ClusterSecretsManipulationError",
	TagDNSProviderInformationError:                      "DnsProviderInformationError",
	TagDNSProviderInvalidCredentials:                    "DnsProviderInvalidCredentials",
	TagDNSProviderInvalidAPIURL:                         "DnsProviderInvalidApiUrl",
	TagObjectStorageCannotCreateBucket:                  "ObjectStorageCannotCreateBucket",
	TagObjectStorageCannotPutFileIntoBucket:             "ObjectStorageCannotPutFileIntoBucket",
	TagObjectStorageCannotDeleteFileIntoBucket:          "ObjectStorageCannotDeleteFileIntoBucket",
	TagObjectStorageCannotDeleteBucket:                  "ObjectStorageCannotDeleteBucket",
	TagObjectStorageCannotActivateBucketVersioning:      "ObjectStorageCannotActivateBucketVersioning",
	TagObjectStorageQuotaExceeded:                       "ObjectStorageQuotaExceeded",
	TagObjectStorageInvalidBucketName:                   "ObjectStorageInvalidBucketName",
	TagObjectStorageCannotEmptyBucket:                   "ObjectStorageCannotEmptyBucket",
	TagObjectStorageCannotTagBucket:                     "ObjectStorageCannotTagBucket",
	TagObjectStorageCannotGetObjectFile:                 "ObjectStorageCannotGetObjectFile",
	TagJobFailure:                                       "JobFailure",
	TagCannotScaleWorkload:                              "CannotScaleWorkload",
	TagCannotDeleteService:                              "CannotDeleteService",
	TagK8sPodsNotTerminated:                             "K8sPodsNotTerminated",
	TagCannotBuildWorkspaceArchive:                      "CannotBuildWorkspaceArchive",
	TagK8sDeploymentNotFound:                            "K8sDeploymentNotFound",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for i, name := range tagNames {
		m[name] = Tag(i)
	}
	return m
}()

// String returns the wire name of the tag.
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// ParseTag returns the tag with the given wire name.
func ParseTag(name string) (Tag, bool) {
	t, ok := tagsByName[name]
	return t, ok
}

// IsCancel reports whether the tag denotes an operator cancellation rather than a failure.
func (t Tag) IsCancel() bool {
	return t == TagTaskCancellationRequested
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, ok := ParseTag(string(text))
	if !ok {
		return fmt.Errorf("unknown error tag %q", string(text))
	}
	*t = parsed
	return nil
}
