package naming

import "fmt"

func Network(cluster string) string {
	return cluster
}

func Firewall(cluster string) string {
	return cluster
}

func PlacementGroup(cluster string) string {
	return cluster
}

// Namespace is the Kubernetes namespace of an environment.
func Namespace(projectShortID, environmentShortID string) string {
	return fmt.Sprintf("%s-%s", projectShortID, environmentShortID)
}

// PendingService is the placeholder service answering while a container
// is first deployed.
func PendingService(service string) string {
	return fmt.Sprintf("%s-pending", service)
}

// Archive is the object key of the workspace archive of an execution.
func Archive(organizationID, clusterID, executionID string) string {
	return fmt.Sprintf("%s/%s/%s.tar.gz", organizationID, clusterID, executionID)
}
