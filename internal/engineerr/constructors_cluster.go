package engineerr

import (
	"fmt"

	"github.com/shadracnicholas/engine/internal/events"
)

var linkHCloudServerTypes = mustParseURL("https://docs.hetzner.com/cloud/servers/overview/")

// NewInvalidEngineAPIInputCannotBeDeserialized reports a request body that is not valid JSON for the engine API.
func NewInvalidEngineAPIInputCannotBeDeserialized(details events.EventDetails, err error) *EngineError {
	msg := "Input cannot be deserialized into an engine request."
	return New(TagInvalidEngineAPIInputCannotBeDeserialized, details, msg, fromError(msg, err), nil, "")
}

// NewClusterWorkerNodeNotFound reports a worker node that disappeared from the cluster.
func NewClusterWorkerNodeNotFound(details events.EventDetails, node string) *EngineError {
	msg := fmt.Sprintf("Cannot find worker node `%s` in the cluster.", node)
	return New(TagClusterWorkerNodeNotFound, details, msg, nil, nil,
		"This can happen if there were manual operations on the workers.")
}

// NewUnsupportedInstanceType reports a server type the provider does not offer.
func NewUnsupportedInstanceType(details events.EventDetails, instanceType string) *EngineError {
	msg := fmt.Sprintf("`%s` instance type is not supported.", instanceType)
	return New(TagUnsupportedInstanceType, details, msg, nil, linkHCloudServerTypes, "")
}

// NewNotAllowedInstanceType reports a server type that exists but is refused for clusters.
func NewNotAllowedInstanceType(details events.EventDetails, instanceType string) *EngineError {
	msg := fmt.Sprintf("`%s` instance type is not allowed for this cluster.", instanceType)
	return New(TagNotAllowedInstanceType, details, msg, nil, linkHCloudServerTypes,
		"Select an instance type with at least 2 vCPUs and 4GB of memory.")
}

// NewUnsupportedClusterKind reports an unknown cluster kind.
func NewUnsupportedClusterKind(details events.EventDetails, kind string) *EngineError {
	msg := fmt.Sprintf("`%s` cluster kind is not supported.", kind)
	return New(TagUnsupportedClusterKind, details, msg, nil, nil, "")
}

// NewUnsupportedZone reports a zone that does not belong to the region.
func NewUnsupportedZone(details events.EventDetails, region, zone string) *EngineError {
	msg := fmt.Sprintf("Zone `%s` is not supported in region `%s`.", zone, region)
	return New(TagUnsupportedZone, details, msg, nil, nil, "")
}

// NewNotEnoughNodesAvailableToDeployEnvironment reports a cluster at its node limit.
func NewNotEnoughNodesAvailableToDeployEnvironment(details events.EventDetails, requested, limit int) *EngineError {
	msg := fmt.Sprintf("Cannot deploy: %d nodes requested but the cluster is limited to %d.", requested, limit)
	return New(TagNotEnoughNodesAvailableToDeployEnvironment, details, msg, nil, nil,
		"Increase the maximum node count of the cluster or reduce the environment footprint.")
}

// NewNotEnoughResourcesToDeployEnvironment reports a cluster without enough free CPU or memory.
func NewNotEnoughResourcesToDeployEnvironment(details events.EventDetails, resource string, requested, available string) *EngineError {
	msg := fmt.Sprintf("Cannot deploy: %s %s requested but only %s available.", requested, resource, available)
	return New(TagNotEnoughResourcesToDeployEnvironment, details, msg, nil, nil,
		"Consider reducing the requested resources or adding nodes to the cluster.")
}

// NewCannotExecuteK8sVersion reports a failed server version call.
func NewCannotExecuteK8sVersion(details events.EventDetails, err error) *EngineError {
	msg := "Error while trying to get Kubernetes version."
	return New(TagCannotExecuteK8sVersion, details, msg, fromError(msg, err), nil, "")
}

// NewCannotDetermineK8sMasterVersion reports an unparseable control plane version.
func NewCannotDetermineK8sMasterVersion(details events.EventDetails, version string) *EngineError {
	msg := fmt.Sprintf("Cannot determine Kubernetes master version from `%s`.", version)
	return New(TagCannotDetermineK8sMasterVersion, details, msg, nil, nil, "")
}

// NewCannotDetermineK8sRequestedUpgradeVersion reports an unparseable target version.
func NewCannotDetermineK8sRequestedUpgradeVersion(details events.EventDetails, version string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot determine requested Kubernetes upgrade version `%s`.", version)
	return New(TagCannotDetermineK8sRequestedUpgradeVersion, details, msg, fromError(msg, err), nil, "")
}

// NewCannotDetermineK8sKubeletWorkerVersion reports an unparseable kubelet version.
func NewCannotDetermineK8sKubeletWorkerVersion(details events.EventDetails, node, version string) *EngineError {
	msg := fmt.Sprintf("Cannot determine kubelet version `%s` on worker `%s`.", version, node)
	return New(TagCannotDetermineK8sKubeletWorkerVersion, details, msg, nil, nil, "")
}

// NewCannotGetNodeGroupList reports a failed node pool listing.
func NewCannotGetNodeGroupList(details events.EventDetails, err error) *EngineError {
	msg := "Error while trying to list node groups."
	return New(TagCannotGetNodeGroupList, details, msg, fromError(msg, err), nil, "")
}

// NewCannotGetNodeGroupInfo reports a failed node pool read.
func NewCannotGetNodeGroupInfo(details events.EventDetails, group string, err error) *EngineError {
	msg := fmt.Sprintf("Error while trying to get information about node group `%s`.", group)
	return New(TagCannotGetNodeGroupInfo, details, msg, fromError(msg, err), nil, "")
}

// NewNumberOfRequestedMaxNodesIsBelowThanCurrentUsage reports a max node count lower than the running nodes.
func NewNumberOfRequestedMaxNodesIsBelowThanCurrentUsage(details events.EventDetails, requested, current int) *EngineError {
	msg := fmt.Sprintf("Requested maximum of %d nodes is below the %d nodes currently in use.", requested, current)
	return New(TagNumberOfRequestedMaxNodesIsBelowThanCurrentUsage, details, msg, nil, nil,
		"Scale down your environments first or request a higher maximum.")
}

// NewCannotDetermineK8sKubeProxyVersion reports an unparseable kube-proxy version.
func NewCannotDetermineK8sKubeProxyVersion(details events.EventDetails, version string) *EngineError {
	msg := fmt.Sprintf("Cannot determine kube-proxy version from `%s`.", version)
	return New(TagCannotDetermineK8sKubeProxyVersion, details, msg, nil, nil, "")
}

// NewCannotPauseManagedDatabase reports a managed database that refused to pause.
func NewCannotPauseManagedDatabase(details events.EventDetails, database string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot pause managed database `%s`.", database)
	return New(TagCannotPauseManagedDatabase, details, msg, fromError(msg, err), nil, "")
}

// NewCannotExecuteK8sAPICustomMetrics reports a failed custom metrics API call.
func NewCannotExecuteK8sAPICustomMetrics(details events.EventDetails, err error) *EngineError {
	msg := "Error while trying to query the Kubernetes custom metrics API."
	return New(TagCannotExecuteK8sAPICustomMetrics, details, msg, fromError(msg, err), nil, "")
}

// NewCloudProviderGetLoadBalancer reports a failed load balancer read.
func NewCloudProviderGetLoadBalancer(details events.EventDetails, err error) *EngineError {
	msg := "Error while trying to get load balancers from the cloud provider."
	return New(TagCloudProviderGetLoadBalancer, details, msg, fromError(msg, err), nil, "")
}

// NewCloudProviderGetLoadBalancerTags reports a failed load balancer label read.
func NewCloudProviderGetLoadBalancerTags(details events.EventDetails, name string, err error) *EngineError {
	msg := fmt.Sprintf("Error while trying to get labels of load balancer `%s`.", name)
	return New(TagCloudProviderGetLoadBalancerTags, details, msg, fromError(msg, err), nil, "")
}

// NewDoNotRespectCloudProviderBestPractices reports a configuration the provider advises against.
func NewDoNotRespectCloudProviderBestPractices(details events.EventDetails, what string, err error) *EngineError {
	msg := fmt.Sprintf("Configuration does not respect cloud provider best practices: %s", what)
	return New(TagDoNotRespectCloudProviderBestPractices, details, msg, fromError(msg, err), nil, "")
}

// NewCannotFindRequiredBinary reports a missing executable in PATH.
func NewCannotFindRequiredBinary(details events.EventDetails, binary string) *EngineError {
	msg := fmt.Sprintf("`%s` binary is required but was not found.", binary)
	return New(TagCannotFindRequiredBinary, details, msg, nil, nil, "")
}

// NewSubnetsCountShouldBeEven reports an odd subnet list.
func NewSubnetsCountShouldBeEven(details events.EventDetails, zone string, count int) *EngineError {
	msg := fmt.Sprintf("Number of subnets for zone `%s` should be even, got %d.", zone, count)
	return New(TagSubnetsCountShouldBeEven, details, msg, nil, nil, "")
}

// NewCannotGetOrCreateIAMRole reports a failed IAM role lookup or creation.
func NewCannotGetOrCreateIAMRole(details events.EventDetails, role string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot get or create IAM role `%s`.", role)
	return New(TagCannotGetOrCreateIAMRole, details, msg, fromError(msg, err), nil, "")
}

// NewCannotCopyFilesFromDirectoryToDirectory reports a failed workspace copy.
func NewCannotCopyFilesFromDirectoryToDirectory(details events.EventDetails, from, to string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot copy files from `%s` to `%s`.", from, to)
	return New(TagCannotCopyFilesFromDirectoryToDirectory, details, msg, fromError(msg, err), nil, "")
}

// NewCannotGetAnyAvailableVPC reports that every network slot is taken.
func NewCannotGetAnyAvailableVPC(details events.EventDetails, err error) *EngineError {
	msg := "No network is available, cannot create a new one."
	return New(TagCannotGetAnyAvailableVPC, details, msg, fromError(msg, err), nil,
		"Delete unused networks or request a higher network quota from your cloud provider.")
}

// NewUnsupportedVersion reports a version the engine cannot deploy.
func NewUnsupportedVersion(details events.EventDetails, product, version string) *EngineError {
	msg := fmt.Sprintf("Version `%s` of `%s` is not supported.", version, product)
	return New(TagUnsupportedVersion, details, msg, nil, nil, "")
}

// NewCannotGetSupportedVersions reports a failed version catalog read.
func NewCannotGetSupportedVersions(details events.EventDetails, product string, err error) *EngineError {
	msg := fmt.Sprintf("Error while trying to get supported versions for `%s`.", product)
	return New(TagCannotGetSupportedVersions, details, msg, fromError(msg, err), nil, "")
}

// NewCannotGetCluster reports a failed cluster read.
func NewCannotGetCluster(details events.EventDetails, err error) *EngineError {
	msg := "Error, cannot get cluster."
	return New(TagCannotGetCluster, details, msg, fromError(msg, err), nil, "")
}

// NewOnlyOneClusterExpected reports an ambiguous cluster lookup.
func NewOnlyOneClusterExpected(details events.EventDetails, found int) *EngineError {
	msg := fmt.Sprintf("Too many clusters found (%d) while expecting only one.", found)
	return New(TagOnlyOneClusterExpected, details, msg, nil, nil, "")
}

// NewVersionNumberParsingError reports a version string that cannot be parsed.
func NewVersionNumberParsingError(details events.EventDetails, version string, err error) *EngineError {
	msg := fmt.Sprintf("Error while trying to parse version `%s`.", version)
	return New(TagVersionNumberParsingError, details, msg, fromError(msg, err), nil, "")
}

// NewDeleteLocalKubeconfigFileError reports a kubeconfig left behind on disk.
func NewDeleteLocalKubeconfigFileError(details events.EventDetails, path string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot delete local kubeconfig file `%s`.", path)
	return New(TagDeleteLocalKubeconfigFileError, details, msg, fromError(msg, err), linkKubeconfig, "")
}

// NewClusterSecretsManipulationError reports a failed read or write of cluster secrets.
func NewClusterSecretsManipulationError(details events.EventDetails, err error) *EngineError {
	msg := "Error while manipulating cluster secrets."
	return New(TagClusterSecretsManipulationError, details, msg, fromError(msg, err), nil, "")
}

// NewJSONDeserializationError reports a payload that does not decode.
func NewJSONDeserializationError(details events.EventDetails, what string, err error) *EngineError {
	msg := fmt.Sprintf("Error while deserializing `%s` from JSON.", what)
	return New(TagJSONDeserializationError, details, msg, fromError(msg, err), nil, "")
}
