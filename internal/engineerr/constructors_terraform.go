package engineerr

import (
	"fmt"

	"github.com/shadracnicholas/engine/internal/events"
)

const terraformStateHint = "Infrastructure state may be out of sync, retry the deployment or contact your administrator."

// NewTerraformUnknownError wraps an unclassified infrastructure tool failure.
func NewTerraformUnknownError(details events.EventDetails, err error) *EngineError {
	msg := "Unknown error while performing infrastructure action."
	return New(TagTerraformUnknownError, details, msg, fromError(msg, err), nil, DefaultHint)
}

// NewTerraformInvalidCredentials reports credentials rejected while provisioning.
func NewTerraformInvalidCredentials(details events.EventDetails, err error) *EngineError {
	msg := "Invalid credentials while provisioning infrastructure."
	return New(TagTerraformInvalidCredentials, details, msg, fromError(msg, err), linkHCloudTokens,
		"Check that your cloud provider token is valid and has read/write permissions.")
}

// NewTerraformAccountBlockedByProvider reports a suspended cloud account.
func NewTerraformAccountBlockedByProvider(details events.EventDetails, err error) *EngineError {
	msg := "Your cloud provider account is blocked."
	return New(TagTerraformAccountBlockedByProvider, details, msg, fromError(msg, err), nil,
		"Contact your cloud provider to unblock the account.")
}

// NewTerraformMultipleInterruptsReceived reports a provisioning run that was killed.
func NewTerraformMultipleInterruptsReceived(details events.EventDetails, err error) *EngineError {
	msg := "Infrastructure action was interrupted several times and stopped."
	return New(TagTerraformMultipleInterruptsReceived, details, msg, fromError(msg, err), nil, terraformStateHint)
}

// NewTerraformNotEnoughPermissions reports a token without the needed permissions.
func NewTerraformNotEnoughPermissions(details events.EventDetails, resource string, err error) *EngineError {
	msg := fmt.Sprintf("Not enough permissions to manage resource `%s`.", resource)
	return New(TagTerraformNotEnoughPermissions, details, msg, fromError(msg, err), linkHCloudTokens, "")
}

// NewTerraformWrongState reports a resource in an unexpected state.
func NewTerraformWrongState(details events.EventDetails, resource, expected, got string) *EngineError {
	msg := fmt.Sprintf("Resource `%s` is in state `%s`, expected `%s`.", resource, got, expected)
	return New(TagTerraformWrongState, details, msg, nil, nil, terraformStateHint)
}

// NewTerraformResourceDependencyViolation reports a resource still in use by another.
func NewTerraformResourceDependencyViolation(details events.EventDetails, resource string, err error) *EngineError {
	msg := fmt.Sprintf("Resource `%s` cannot be changed because other resources depend on it.", resource)
	return New(TagTerraformResourceDependencyViolation, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformInstanceTypeDoesntExist reports an unknown server type at provisioning time.
func NewTerraformInstanceTypeDoesntExist(details events.EventDetails, instanceType string) *EngineError {
	msg := fmt.Sprintf("Instance type `%s` doesn't exist.", instanceType)
	return New(TagTerraformInstanceTypeDoesntExist, details, msg, nil, linkHCloudServerTypes, "")
}

// NewTerraformInstanceVolumeCannotBeReduced reports a disk shrink request.
func NewTerraformInstanceVolumeCannotBeReduced(details events.EventDetails, resource string) *EngineError {
	msg := fmt.Sprintf("Volume of `%s` cannot be reduced.", resource)
	return New(TagTerraformInstanceVolumeCannotBeReduced, details, msg, nil, nil,
		"Keep the current disk size or recreate the resource.")
}

// NewTerraformConfigFileNotFound reports a missing infrastructure definition.
func NewTerraformConfigFileNotFound(details events.EventDetails, path string, err error) *EngineError {
	msg := fmt.Sprintf("Infrastructure config file `%s` not found.", path)
	return New(TagTerraformConfigFileNotFound, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformConfigFileInvalidContent reports an unparseable infrastructure definition.
func NewTerraformConfigFileInvalidContent(details events.EventDetails, path string, err error) *EngineError {
	msg := fmt.Sprintf("Infrastructure config file `%s` has invalid content.", path)
	return New(TagTerraformConfigFileInvalidContent, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformCannotDeleteLockFile reports a stale lock file.
func NewTerraformCannotDeleteLockFile(details events.EventDetails, path string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot delete lock file `%s`.", path)
	return New(TagTerraformCannotDeleteLockFile, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformInitError reports a failed init step.
func NewTerraformInitError(details events.EventDetails, err error) *EngineError {
	msg := "Error while initializing infrastructure workspace."
	return New(TagTerraformInitError, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformValidateError reports a failed validation step.
func NewTerraformValidateError(details events.EventDetails, err error) *EngineError {
	msg := "Error while validating infrastructure definition."
	return New(TagTerraformValidateError, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformPlanError reports a failed plan step.
func NewTerraformPlanError(details events.EventDetails, err error) *EngineError {
	msg := "Error while planning infrastructure changes."
	return New(TagTerraformPlanError, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformApplyError reports a failed apply step.
func NewTerraformApplyError(details events.EventDetails, err error) *EngineError {
	msg := "Error while applying infrastructure changes."
	return New(TagTerraformApplyError, details, msg, fromError(msg, err), nil, terraformStateHint)
}

// NewTerraformDestroyError reports a failed destroy step.
func NewTerraformDestroyError(details events.EventDetails, err error) *EngineError {
	msg := "Error while destroying infrastructure."
	return New(TagTerraformDestroyError, details, msg, fromError(msg, err), nil, terraformStateHint)
}

// NewTerraformCannotRemoveEntryOut reports a state entry that could not be dropped.
func NewTerraformCannotRemoveEntryOut(details events.EventDetails, entry string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot remove entry `%s` from infrastructure state.", entry)
	return New(TagTerraformCannotRemoveEntryOut, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformErrorWhileExecutingPipeline reports a failed create pipeline.
func NewTerraformErrorWhileExecutingPipeline(details events.EventDetails, err error) *EngineError {
	msg := "Error while executing infrastructure pipeline."
	return New(TagTerraformErrorWhileExecutingPipeline, details, msg, fromError(msg, err), nil, terraformStateHint)
}

// NewTerraformErrorWhileExecutingDestroyPipeline reports a failed destroy pipeline.
func NewTerraformErrorWhileExecutingDestroyPipeline(details events.EventDetails, err error) *EngineError {
	msg := "Error while executing infrastructure destroy pipeline."
	return New(TagTerraformErrorWhileExecutingDestroyPipeline, details, msg, fromError(msg, err), nil, terraformStateHint)
}

// NewTerraformContextUnsupportedParameterValue reports a parameter value the provider rejects.
func NewTerraformContextUnsupportedParameterValue(details events.EventDetails, service, parameter, value string) *EngineError {
	msg := fmt.Sprintf("Value `%s` is not supported for parameter `%s` of `%s`.", value, parameter, service)
	return New(TagTerraformContextUnsupportedParameterValue, details, msg, nil, nil, "")
}

// NewTerraformCloudProviderQuotasReached reports an exhausted provider quota.
func NewTerraformCloudProviderQuotasReached(details events.EventDetails, resource string, err error) *EngineError {
	msg := fmt.Sprintf("Cloud provider quota reached for `%s`.", resource)
	return New(TagTerraformCloudProviderQuotasReached, details, msg, fromError(msg, err), nil,
		"Request a quota increase from your cloud provider.")
}

// NewTerraformCloudProviderActivationRequired reports an account not yet activated.
func NewTerraformCloudProviderActivationRequired(details events.EventDetails, err error) *EngineError {
	msg := "Your cloud provider account must be activated before provisioning resources."
	return New(TagTerraformCloudProviderActivationRequired, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformServiceNotActivatedOptInRequired reports a service needing opt-in.
func NewTerraformServiceNotActivatedOptInRequired(details events.EventDetails, service string, err error) *EngineError {
	msg := fmt.Sprintf("Service `%s` is not activated on your cloud provider account.", service)
	return New(TagTerraformServiceNotActivatedOptInRequired, details, msg, fromError(msg, err), nil, "")
}

// NewTerraformWaitingTimeoutResource reports a resource that never became ready.
func NewTerraformWaitingTimeoutResource(details events.EventDetails, resource string, err error) *EngineError {
	msg := fmt.Sprintf("Timed out waiting for resource `%s`.", resource)
	return New(TagTerraformWaitingTimeoutResource, details, msg, fromError(msg, err), nil, terraformStateHint)
}

// NewTerraformAlreadyExistingResource reports a name collision with an existing resource.
func NewTerraformAlreadyExistingResource(details events.EventDetails, resource string) *EngineError {
	msg := fmt.Sprintf("Resource `%s` already exists.", resource)
	return New(TagTerraformAlreadyExistingResource, details, msg, nil, nil,
		"Delete or import the existing resource before retrying.")
}

// NewTerraformInvalidCIDRBlock reports a malformed or overlapping network range.
func NewTerraformInvalidCIDRBlock(details events.EventDetails, cidr string) *EngineError {
	msg := fmt.Sprintf("CIDR block `%s` is invalid.", cidr)
	return New(TagTerraformInvalidCIDRBlock, details, msg, nil, nil, "")
}

// NewTerraformStateLocked reports a state held by another run.
func NewTerraformStateLocked(details events.EventDetails, lockID string) *EngineError {
	msg := fmt.Sprintf("Infrastructure state is locked (lock `%s`).", lockID)
	return New(TagTerraformStateLocked, details, msg, nil, nil,
		"Wait for the other operation to finish or release the lock manually.")
}
