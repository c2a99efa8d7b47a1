package labels

// Standard label keys for Hetzner Cloud resources.
const (
	// KeyCluster identifies which cluster a resource belongs to
	KeyCluster = "engine.io/cluster"

	// KeyOrganization identifies the organization owning the cluster
	KeyOrganization = "engine.io/organization"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "engine.io/managed-by"
)

// ManagedByEngine marks resources created by the engine.
const ManagedByEngine = "engine"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a label builder with the cluster id pre-set.
func NewLabelBuilder(clusterID string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyCluster:   clusterID,
			KeyManagedBy: ManagedByEngine,
		},
	}
}

// WithOrganization adds the organization label when org is non-empty.
func (lb *LabelBuilder) WithOrganization(org string) *LabelBuilder {
	if org != "" {
		lb.labels[KeyOrganization] = org
	}
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// ForCluster returns the labels selecting every resource of a cluster.
func ForCluster(clusterID string) map[string]string {
	return map[string]string{KeyCluster: clusterID}
}
