package events

import "fmt"

// Kind identifies the cloud provider an event originates from.
type Kind string

// Supported cloud provider kinds.
const (
	KindHetzner      Kind = "hetzner"
	KindAWS          Kind = "aws"
	KindScaleway     Kind = "scaleway"
	KindDigitalOcean Kind = "digitalocean"
)

// TransmitterKind names the logical component emitting an event.
type TransmitterKind string

// Transmitter kinds.
const (
	TransmitterKubernetes        TransmitterKind = "kubernetes"
	TransmitterApplication       TransmitterKind = "application"
	TransmitterDatabase          TransmitterKind = "database"
	TransmitterRouter            TransmitterKind = "router"
	TransmitterBuildPlatform     TransmitterKind = "build_platform"
	TransmitterContainerRegistry TransmitterKind = "container_registry"
	TransmitterObjectStorage     TransmitterKind = "object_storage"
	TransmitterDNSProvider       TransmitterKind = "dns_provider"
	TransmitterCloudProvider     TransmitterKind = "cloud_provider"
	TransmitterTaskManager       TransmitterKind = "task_manager"
	TransmitterEnvironment       TransmitterKind = "environment"
)

// Transmitter is the component that emitted an event.
type Transmitter struct {
	Kind TransmitterKind
	ID   string
	Name string
}

// NewTransmitter creates a Transmitter.
func NewTransmitter(kind TransmitterKind, id, name string) Transmitter {
	return Transmitter{Kind: kind, ID: id, Name: name}
}

func (t Transmitter) String() string {
	if t.Name == "" {
		return fmt.Sprintf("%s(%s)", t.Kind, t.ID)
	}
	return fmt.Sprintf("%s(%s, %s)", t.Kind, t.ID, t.Name)
}

// EventDetails carries the identifying context of an operation.
// A value is never mutated after construction: use CloneWithStage to move it
// to another pipeline stage.
type EventDetails struct {
	providerKind   Kind
	organizationID string
	clusterID      string
	executionID    string
	stage          Stage
	transmitter    Transmitter
}

// NewEventDetails creates EventDetails. An empty providerKind means the
// event is not tied to a cloud provider.
func NewEventDetails(providerKind Kind, organizationID, clusterID, executionID string, stage Stage, transmitter Transmitter) EventDetails {
	return EventDetails{
		providerKind:   providerKind,
		organizationID: organizationID,
		clusterID:      clusterID,
		executionID:    executionID,
		stage:          stage,
		transmitter:    transmitter,
	}
}

// ProviderKind returns the cloud provider kind, if any.
func (d EventDetails) ProviderKind() (Kind, bool) {
	return d.providerKind, d.providerKind != ""
}

// OrganizationID returns the organization id.
func (d EventDetails) OrganizationID() string { return d.organizationID }

// ClusterID returns the cluster id.
func (d EventDetails) ClusterID() string { return d.clusterID }

// ExecutionID returns the execution id.
func (d EventDetails) ExecutionID() string { return d.executionID }

// Stage returns the pipeline stage.
func (d EventDetails) Stage() Stage { return d.stage }

// Transmitter returns the emitting component.
func (d EventDetails) Transmitter() Transmitter { return d.transmitter }

// CloneWithStage returns a copy of d with the stage replaced.
func (d EventDetails) CloneWithStage(stage Stage) EventDetails {
	clone := d
	clone.stage = stage
	return clone
}

// CloneWithTransmitter returns a copy of d with the transmitter replaced.
func (d EventDetails) CloneWithTransmitter(t Transmitter) EventDetails {
	clone := d
	clone.transmitter = t
	return clone
}

// KeysAndValues returns the details as logr key/value pairs.
func (d EventDetails) KeysAndValues() []interface{} {
	kv := []interface{}{
		"organization", d.organizationID,
		"cluster", d.clusterID,
		"execution", d.executionID,
		"stage", d.stage.String(),
		"transmitter", d.transmitter.String(),
	}
	if d.providerKind != "" {
		kv = append(kv, "provider", string(d.providerKind))
	}
	return kv
}
