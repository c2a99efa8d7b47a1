package engineerr

import (
	"fmt"
	"time"

	"github.com/shadracnicholas/engine/internal/events"
)

var (
	linkHelmDeploy      = mustParseURL("https://helm.sh/docs/helm/helm_upgrade/")
	linkKubeconfig      = mustParseURL("https://kubernetes.io/docs/concepts/configuration/organize-cluster-access-kubeconfig/")
	linkHCloudTokens    = mustParseURL("https://docs.hetzner.cloud/#authentication")
	linkCloudflareToken = mustParseURL("https://developers.cloudflare.com/fundamentals/api/get-started/create-token/")
	linkDockerfile      = mustParseURL("https://docs.docker.com/reference/dockerfile/")
)

// NewUnknown wraps an unexpected error.
func NewUnknown(details events.EventDetails, message string, err error) *EngineError {
	return New(TagUnknown, details, message, fromError(message, err), nil, DefaultHint)
}

// NewTaskCancellationRequested reports an operator cancellation.
func NewTaskCancellationRequested(details events.EventDetails) *EngineError {
	msg := "Task cancellation has been requested."
	return New(TagTaskCancellationRequested, details, msg, nil, nil, "")
}

// NewInvalidEnginePayload reports a request that cannot be used as is.
func NewInvalidEnginePayload(details events.EventDetails, reason string, err error) *EngineError {
	msg := fmt.Sprintf("Engine payload is invalid: %s", reason)
	return New(TagInvalidEnginePayload, details, msg, fromError(msg, err), nil, "")
}

// NewMissingRequiredEnvVariable reports an unset environment variable.
func NewMissingRequiredEnvVariable(details events.EventDetails, name string) *EngineError {
	msg := fmt.Sprintf("`%s` environment variable wasn't found.", name)
	return New(TagMissingRequiredEnvVariable, details, msg, nil, nil, "")
}

// NewNotImplementedError reports a code path that is not available.
func NewNotImplementedError(details events.EventDetails) *EngineError {
	return New(TagNotImplementedError, details, "This feature is not implemented.", nil, nil, "")
}

// NewNoClusterFound reports a missing cluster.
func NewNoClusterFound(details events.EventDetails) *EngineError {
	return New(TagNoClusterFound, details, "No cluster found.", nil, nil, "")
}

// NewClusterHasNoWorkerNodes reports a cluster without workers.
func NewClusterHasNoWorkerNodes(details events.EventDetails, err error) *EngineError {
	msg := "No worker nodes present, can't proceed with operation."
	return New(TagClusterHasNoWorkerNodes, details, msg, fromError(msg, err), nil,
		"This can happen if there were manual operations on the workers or the infrastructure is paused.")
}

// NewUnsupportedRegion reports an unknown region or location.
func NewUnsupportedRegion(details events.EventDetails, region string, err error) *EngineError {
	msg := fmt.Sprintf("Region `%s` is not supported.", region)
	return New(TagUnsupportedRegion, details, msg, fromError(msg, err), nil, "")
}

// NewCannotGetWorkspaceDirectory reports an unusable workspace directory.
func NewCannotGetWorkspaceDirectory(details events.EventDetails, dir string, err error) *EngineError {
	msg := fmt.Sprintf("Error while trying to get workspace directory `%s`.", dir)
	return New(TagCannotGetWorkspaceDirectory, details, msg, fromError(msg, err), nil, "")
}

// NewCannotCreateFile reports a file that could not be written.
func NewCannotCreateFile(details events.EventDetails, path string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot create file `%s`.", path)
	return New(TagCannotCreateFile, details, msg, fromError(msg, err), nil, "")
}

// NewCannotRetrieveClusterConfigFile reports an unreadable kubeconfig.
func NewCannotRetrieveClusterConfigFile(details events.EventDetails, err error) *EngineError {
	msg := "Cannot retrieve Kubernetes kubeconfig"
	return New(TagCannotRetrieveClusterConfigFile, details, msg, fromError(msg, err), nil, "")
}

// NewCannotConnectK8sCluster reports an unreachable Kubernetes API.
func NewCannotConnectK8sCluster(details events.EventDetails, err error) *EngineError {
	msg := "Cannot connect to Kubernetes cluster."
	return New(TagCannotConnectK8sCluster, details, msg, fromError(msg, err), nil, "")
}

// NewCannotGetClusterNodes reports a failed node listing.
func NewCannotGetClusterNodes(details events.EventDetails, err error) *EngineError {
	msg := "Cannot get cluster nodes."
	return New(TagCannotGetClusterNodes, details, msg, fromError(msg, err), nil, "")
}

// NewCannotPauseClusterTasksAreRunning reports a pause blocked by running work.
func NewCannotPauseClusterTasksAreRunning(details events.EventDetails, err error) *EngineError {
	msg := "Can't pause the infrastructure now, Jobs are running. Please retry later."
	return New(TagCannotPauseClusterTasksAreRunning, details, msg, fromError(msg, err), nil, "")
}

// NewKubeconfigFileDoNotPermitToConnectToK8sCluster reports a kubeconfig that does not grant access.
func NewKubeconfigFileDoNotPermitToConnectToK8sCluster(details events.EventDetails, err error) *EngineError {
	msg := "Your kubeconfig file doesn't allow to connect to the Kubernetes cluster."
	return New(TagKubeconfigFileDoNotPermitToConnectToK8sCluster, details, msg, fromError(msg, err), linkKubeconfig, "")
}

// NewKubeconfigSecurityCheckError reports a kubeconfig pointing at an unexpected cluster.
func NewKubeconfigSecurityCheckError(details events.EventDetails, expected, got string) *EngineError {
	msg := fmt.Sprintf("Kubeconfig security check failed: expected cluster `%s` but got `%s`.", expected, got)
	return New(TagKubeconfigSecurityCheckError, details, msg, nil, linkKubeconfig, "")
}

// NewCannotUninstallHelmChart reports a failed release removal.
func NewCannotUninstallHelmChart(details events.EventDetails, release string, err error) *EngineError {
	msg := fmt.Sprintf("Wasn't able to delete helm chart `%s`.", release)
	return New(TagCannotUninstallHelmChart, details, msg, fromError(msg, err), nil, "")
}

// NewHelmChartsSetupError reports a Helm client that could not be prepared.
func NewHelmChartsSetupError(details events.EventDetails, err error) *EngineError {
	msg := "Error while setting up helm charts."
	return New(TagHelmChartsSetupError, details, msg, fromError(msg, err), nil, "")
}

// NewHelmChartsDeployError reports a failed install or upgrade.
func NewHelmChartsDeployError(details events.EventDetails, chart string, err error) *EngineError {
	msg := fmt.Sprintf("Error while deploying helm chart `%s`.", chart)
	return New(TagHelmChartsDeployError, details, msg, fromError(msg, err), linkHelmDeploy, "")
}

// NewHelmChartsUpgradeError reports a failed upgrade.
func NewHelmChartsUpgradeError(details events.EventDetails, chart string, err error) *EngineError {
	msg := fmt.Sprintf("Error while upgrading helm chart `%s`.", chart)
	return New(TagHelmChartsUpgradeError, details, msg, fromError(msg, err), linkHelmDeploy, "")
}

// NewHelmChartUninstallError reports a failed uninstall.
func NewHelmChartUninstallError(details events.EventDetails, release string, err error) *EngineError {
	msg := fmt.Sprintf("Error while uninstalling helm chart `%s`.", release)
	return New(TagHelmChartUninstallError, details, msg, fromError(msg, err), nil, "")
}

// NewHelmHistoryError reports an unreadable release history.
func NewHelmHistoryError(details events.EventDetails, release string, err error) *EngineError {
	msg := fmt.Sprintf("Error while getting helm history for release `%s`.", release)
	return New(TagHelmHistoryError, details, msg, fromError(msg, err), nil, "")
}

// NewHelmDeployTimeout reports a release that did not become ready in time.
func NewHelmDeployTimeout(details events.EventDetails, chart string, timeout time.Duration) *EngineError {
	msg := fmt.Sprintf("Helm timed out after %s while deploying chart `%s`.", timeout, chart)
	return New(TagHelmDeployTimeout, details, msg, nil, linkHelmDeploy,
		"Check that your application starts and passes its readiness probe within the deployment timeout.")
}

// NewCloudProviderInformationError reports a failed cloud API read.
func NewCloudProviderInformationError(details events.EventDetails, err error) *EngineError {
	msg := "Error while trying to get information from the cloud provider."
	return New(TagCloudProviderInformationError, details, msg, fromError(msg, err), nil, "")
}

// NewCloudProviderClientInvalidCredentials reports rejected cloud credentials.
func NewCloudProviderClientInvalidCredentials(details events.EventDetails, err error) *EngineError {
	msg := "Your cloud provider account seems to be no longer valid (bad credentials)."
	return New(TagCloudProviderClientInvalidCredentials, details, msg, fromError(msg, err), linkHCloudTokens,
		"Please contact your Organization administrator to fix or change the credentials.")
}

// NewCloudProviderAPIMissingInfo reports an incomplete cloud API response.
func NewCloudProviderAPIMissingInfo(details events.EventDetails, what string) *EngineError {
	msg := fmt.Sprintf("Cloud provider API response is missing `%s`.", what)
	return New(TagCloudProviderAPIMissingInfo, details, msg, nil, nil, "")
}

// NewCloudProviderDeleteLoadBalancer reports a failed load balancer deletion.
func NewCloudProviderDeleteLoadBalancer(details events.EventDetails, name string, err error) *EngineError {
	msg := fmt.Sprintf("Error while trying to delete load balancer `%s`.", name)
	return New(TagCloudProviderDeleteLoadBalancer, details, msg, fromError(msg, err), nil, "")
}

// NewClientServiceFailedToStart reports a service that did not become ready.
func NewClientServiceFailedToStart(details events.EventDetails, service string, err error) *EngineError {
	msg := fmt.Sprintf("Service `%s` failed to start.", service)
	return New(TagClientServiceFailedToStart, details, msg, fromError(msg, err), nil,
		"Ensure you can run it without issues locally and check its logs.")
}

// NewClientServiceFailedToDeployBeforeStart reports a service that failed before starting.
func NewClientServiceFailedToDeployBeforeStart(details events.EventDetails, service string, err error) *EngineError {
	msg := fmt.Sprintf("Service `%s` failed to deploy (before start).", service)
	return New(TagClientServiceFailedToDeployBeforeStart, details, msg, fromError(msg, err), nil, "")
}

// NewDatabaseFailedToStartAfterSeveralRetries reports a database that never became ready.
func NewDatabaseFailedToStartAfterSeveralRetries(details events.EventDetails, database string, err error) *EngineError {
	msg := fmt.Sprintf("Database `%s` failed to start after several retries.", database)
	return New(TagDatabaseFailedToStartAfterSeveralRetries, details, msg, fromError(msg, err), nil, "")
}

// NewRouterFailedToDeploy reports a failed router deployment.
func NewRouterFailedToDeploy(details events.EventDetails, err error) *EngineError {
	msg := "Router has failed to be deployed."
	return New(TagRouterFailedToDeploy, details, msg, fromError(msg, err), nil, "")
}

// NewJobFailure reports a job that terminated unsuccessfully.
func NewJobFailure(details events.EventDetails, job string, err error) *EngineError {
	msg := fmt.Sprintf("Job `%s` failed.", job)
	return New(TagJobFailure, details, msg, fromError(msg, err), nil, "")
}

// NewBuilderError reports a generic build failure.
func NewBuilderError(details events.EventDetails, application string, err error) *EngineError {
	msg := fmt.Sprintf("Builder error for application `%s`.", application)
	return New(TagBuilderError, details, msg, fromError(msg, err), nil, "")
}

// NewBuilderDockerCannotFindAnyDockerfile reports a missing Dockerfile.
func NewBuilderDockerCannotFindAnyDockerfile(details events.EventDetails, path string) *EngineError {
	msg := fmt.Sprintf("Dockerfile not found at location `%s`.", path)
	return New(TagBuilderDockerCannotFindAnyDockerfile, details, msg, nil, linkDockerfile,
		"Your Dockerfile is not present at the specified location, check your settings.")
}

// NewBuilderDockerCannotBuildContainerImage reports a failed image build.
func NewBuilderDockerCannotBuildContainerImage(details events.EventDetails, image string, err error) *EngineError {
	msg := fmt.Sprintf("Error while building container image `%s`.", image)
	return New(TagBuilderDockerCannotBuildContainerImage, details, msg, fromError(msg, err), linkDockerfile,
		"It looks like there is something wrong in your Dockerfile. Try building the application locally with `docker build --no-cache`.")
}

// NewDockerError reports a failed Docker daemon call.
func NewDockerError(details events.EventDetails, err error) *EngineError {
	msg := "Error while interacting with Docker."
	return New(TagDockerError, details, msg, fromError(msg, err), nil, "")
}

// NewDockerPullImageError reports a failed image pull.
func NewDockerPullImageError(details events.EventDetails, image string, err error) *EngineError {
	msg := fmt.Sprintf("Error while pulling image `%s`.", image)
	return New(TagDockerPullImageError, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryInvalidCredentials reports rejected registry credentials.
func NewContainerRegistryInvalidCredentials(details events.EventDetails, registry string, err error) *EngineError {
	msg := fmt.Sprintf("Container registry `%s` rejected the credentials.", registry)
	return New(TagContainerRegistryInvalidCredentials, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryCannotDeleteImage reports a failed image removal.
func NewContainerRegistryCannotDeleteImage(details events.EventDetails, image string, err error) *EngineError {
	msg := fmt.Sprintf("Failed to delete image `%s`.", image)
	return New(TagContainerRegistryCannotDeleteImage, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryImageDoesntExist reports a missing image.
func NewContainerRegistryImageDoesntExist(details events.EventDetails, image string, err error) *EngineError {
	msg := fmt.Sprintf("Image `%s` doesn't exist.", image)
	return New(TagContainerRegistryImageDoesntExist, details, msg, fromError(msg, err), nil, "")
}

// NewDNSProviderInvalidCredentials reports rejected DNS credentials.
func NewDNSProviderInvalidCredentials(details events.EventDetails, err error) *EngineError {
	msg := "Invalid credentials for DNS provider."
	return New(TagDNSProviderInvalidCredentials, details, msg, fromError(msg, err), linkCloudflareToken, "")
}

// NewDNSProviderInformationError reports a failed DNS API read.
func NewDNSProviderInformationError(details events.EventDetails, err error) *EngineError {
	msg := "Error while trying to get DNS provider information."
	return New(TagDNSProviderInformationError, details, msg, fromError(msg, err), nil, "")
}

// NewDNSProviderInvalidAPIURL reports a malformed DNS API endpoint.
func NewDNSProviderInvalidAPIURL(details events.EventDetails, raw string, err error) *EngineError {
	msg := fmt.Sprintf("Invalid DNS provider API URL `%s`.", raw)
	return New(TagDNSProviderInvalidAPIURL, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageCannotCreateBucket reports a failed bucket creation.
func NewObjectStorageCannotCreateBucket(details events.EventDetails, bucket string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot create object storage bucket `%s`.", bucket)
	return New(TagObjectStorageCannotCreateBucket, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageCannotPutFileIntoBucket reports a failed upload.
func NewObjectStorageCannotPutFileIntoBucket(details events.EventDetails, bucket, key string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot put file `%s` into object storage bucket `%s`.", key, bucket)
	return New(TagObjectStorageCannotPutFileIntoBucket, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageInvalidBucketName reports a bucket name the provider rejects.
func NewObjectStorageInvalidBucketName(details events.EventDetails, bucket string) *EngineError {
	msg := fmt.Sprintf("Error, bucket name `%s` is invalid.", bucket)
	return New(TagObjectStorageInvalidBucketName, details, msg, nil, nil, "")
}

// NewCannotScaleWorkload reports a failed scale of a deployment or statefulset.
func NewCannotScaleWorkload(details events.EventDetails, workload string, replicas int32, err error) *EngineError {
	msg := fmt.Sprintf("Cannot scale `%s` to %d replicas.", workload, replicas)
	return New(TagCannotScaleWorkload, details, msg, fromError(msg, err), nil, "")
}

// NewCannotDeleteService reports a failed Kubernetes service deletion.
func NewCannotDeleteService(details events.EventDetails, service string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot delete Kubernetes service `%s`.", service)
	return New(TagCannotDeleteService, details, msg, fromError(msg, err), nil, "")
}

// NewK8sPodsNotTerminated reports pods still alive after the grace period.
func NewK8sPodsNotTerminated(details events.EventDetails, selector string, timeout time.Duration) *EngineError {
	msg := fmt.Sprintf("Pods matching `%s` are still running after %s.", selector, timeout)
	return New(TagK8sPodsNotTerminated, details, msg, nil, nil, "")
}

// NewK8sDeploymentNotFound reports a missing workload.
func NewK8sDeploymentNotFound(details events.EventDetails, name string) *EngineError {
	msg := fmt.Sprintf("Kubernetes workload `%s` not found.", name)
	return New(TagK8sDeploymentNotFound, details, msg, nil, nil, "")
}

// NewCannotBuildWorkspaceArchive reports a workspace that could not be archived.
func NewCannotBuildWorkspaceArchive(details events.EventDetails, dir string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot archive workspace directory `%s`.", dir)
	return New(TagCannotBuildWorkspaceArchive, details, msg, fromError(msg, err), nil, "")
}
