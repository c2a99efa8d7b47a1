package transaction

// StepName identifies a transaction step.
type StepName int

// Step names.
const (
	CreateKubernetes StepName = iota
	DeleteKubernetes
	PauseKubernetes
	BuildEnvironment
	DeployEnvironment
	PauseEnvironment
	DeleteEnvironment
	Waiting
)

var stepNames = [...]string{
	CreateKubernetes:  "CreateKubernetes",
	DeleteKubernetes:  "DeleteKubernetes",
	PauseKubernetes:   "PauseKubernetes",
	BuildEnvironment:  "BuildEnvironment",
	DeployEnvironment: "DeployEnvironment",
	PauseEnvironment:  "PauseEnvironment",
	DeleteEnvironment: "DeleteEnvironment",
	Waiting:           "Waiting",
}

func (s StepName) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "Unknown"
	}
	return stepNames[s]
}

// CanBeCanceled reports whether a step of this kind may be interrupted.
// Cluster lifecycle steps never are.
func (s StepName) CanBeCanceled() bool {
	switch s {
	case BuildEnvironment, DeployEnvironment, PauseEnvironment, DeleteEnvironment, Waiting:
		return true
	default:
		return false
	}
}

// Step is a queued unit of work of a Transaction.
type Step struct {
	Name StepName
}

// RollbackErrorKind classifies a failed rollback.
type RollbackErrorKind int

const (
	// RollbackCommitError means a compensating hook failed.
	RollbackCommitError RollbackErrorKind = iota
	// RollbackNoFailoverEnvironment means there is nothing to fail over to.
	RollbackNoFailoverEnvironment
	// RollbackNothing means nothing needed to be rolled back.
	RollbackNothing
)

func (k RollbackErrorKind) String() string {
	switch k {
	case RollbackCommitError:
		return "CommitError"
	case RollbackNoFailoverEnvironment:
		return "NoFailoverEnvironment"
	default:
		return "Nothing"
	}
}

// RollbackError is produced when rollback could not complete.
type RollbackError struct {
	Kind RollbackErrorKind
	Step StepName
	Err  error
}

func (e *RollbackError) Error() string {
	if e.Err == nil {
		return "rollback: " + e.Kind.String()
	}
	return "rollback " + e.Kind.String() + " on " + e.Step.String() + ": " + e.Err.Error()
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}
