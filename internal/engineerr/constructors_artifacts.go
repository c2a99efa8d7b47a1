package engineerr

import (
	"fmt"

	"github.com/shadracnicholas/engine/internal/events"
)

// NewBuilderDockerCannotReadDockerfile reports an unreadable Dockerfile.
func NewBuilderDockerCannotReadDockerfile(details events.EventDetails, path string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot read Dockerfile `%s`.", path)
	return New(TagBuilderDockerCannotReadDockerfile, details, msg, fromError(msg, err), linkDockerfile, "")
}

// NewBuilderDockerCannotExtractEnvVarsFromDockerfile reports a Dockerfile whose ARG lines cannot be parsed.
func NewBuilderDockerCannotExtractEnvVarsFromDockerfile(details events.EventDetails, path string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot extract build arguments from Dockerfile `%s`.", path)
	return New(TagBuilderDockerCannotExtractEnvVarsFromDockerfile, details, msg, fromError(msg, err), linkDockerfile, "")
}

// NewBuilderDockerCannotListImages reports a failed local image listing.
func NewBuilderDockerCannotListImages(details events.EventDetails, err error) *EngineError {
	msg := "Cannot list local container images."
	return New(TagBuilderDockerCannotListImages, details, msg, fromError(msg, err), nil, "")
}

// NewBuilderBuildpackInvalidLanguageFormat reports an unknown buildpack language.
func NewBuilderBuildpackInvalidLanguageFormat(details events.EventDetails, language string) *EngineError {
	msg := fmt.Sprintf("Buildpack language `%s` is not supported.", language)
	return New(TagBuilderBuildpackInvalidLanguageFormat, details, msg, nil, nil,
		"Add a Dockerfile to your repository instead.")
}

// NewBuilderBuildpackCannotBuildContainerImage reports a failed buildpack build.
func NewBuilderBuildpackCannotBuildContainerImage(details events.EventDetails, image string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot build container image `%s` with buildpacks.", image)
	return New(TagBuilderBuildpackCannotBuildContainerImage, details, msg, fromError(msg, err), nil, "")
}

// NewBuilderGetBuildError reports a failure to prepare the build context.
func NewBuilderGetBuildError(details events.EventDetails, application string, err error) *EngineError {
	msg := fmt.Sprintf("Error while preparing build for application `%s`.", application)
	return New(TagBuilderGetBuildError, details, msg, fromError(msg, err), nil, "")
}

// NewBuilderCloningRepositoryError reports a failed source checkout.
func NewBuilderCloningRepositoryError(details events.EventDetails, repository string, err error) *EngineError {
	msg := fmt.Sprintf("Error while cloning repository `%s`.", repository)
	return New(TagBuilderCloningRepositoryError, details, msg, fromError(msg, err), nil,
		"Check that the repository exists and the engine has access to it.")
}

// NewDockerPushImageError reports a failed image push.
func NewDockerPushImageError(details events.EventDetails, image string, err error) *EngineError {
	msg := fmt.Sprintf("Error while pushing image `%s`.", image)
	return New(TagDockerPushImageError, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryCannotCreateRepository reports a failed repository creation.
func NewContainerRegistryCannotCreateRepository(details events.EventDetails, repository string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot create repository `%s` in the container registry.", repository)
	return New(TagContainerRegistryCannotCreateRepository, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryCannotSetRepositoryLifecycle reports a failed retention policy update.
func NewContainerRegistryCannotSetRepositoryLifecycle(details events.EventDetails, repository string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot set lifecycle policy on repository `%s`.", repository)
	return New(TagContainerRegistryCannotSetRepositoryLifecycle, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryCannotGetCredentials reports a failed registry login token fetch.
func NewContainerRegistryCannotGetCredentials(details events.EventDetails, registry string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot get credentials for container registry `%s`.", registry)
	return New(TagContainerRegistryCannotGetCredentials, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryImageUnreachableAfterPush reports an image missing right after a push.
func NewContainerRegistryImageUnreachableAfterPush(details events.EventDetails, image string) *EngineError {
	msg := fmt.Sprintf("Image `%s` is not reachable in the registry after push.", image)
	return New(TagContainerRegistryImageUnreachableAfterPush, details, msg, nil, nil, "")
}

// NewContainerRegistryRepositoryDoesntExistInRegistry reports a missing repository.
func NewContainerRegistryRepositoryDoesntExistInRegistry(details events.EventDetails, registry, repository string) *EngineError {
	msg := fmt.Sprintf("Repository `%s` doesn't exist in registry `%s`.", repository, registry)
	return New(TagContainerRegistryRepositoryDoesntExistInRegistry, details, msg, nil, nil, "")
}

// NewContainerRegistryRegistryDoesntExist reports a missing registry.
func NewContainerRegistryRegistryDoesntExist(details events.EventDetails, registry string) *EngineError {
	msg := fmt.Sprintf("Container registry `%s` doesn't exist.", registry)
	return New(TagContainerRegistryRegistryDoesntExist, details, msg, nil, nil, "")
}

// NewContainerRegistryCannotDeleteRepository reports a failed repository deletion.
func NewContainerRegistryCannotDeleteRepository(details events.EventDetails, repository string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot delete repository `%s` from the container registry.", repository)
	return New(TagContainerRegistryCannotDeleteRepository, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryInvalidInformation reports incomplete registry settings.
func NewContainerRegistryInvalidInformation(details events.EventDetails, reason string) *EngineError {
	msg := fmt.Sprintf("Container registry information is invalid: %s", reason)
	return New(TagContainerRegistryInvalidInformation, details, msg, nil, nil, "")
}

// NewContainerRegistryCannotLinkRegistryToCluster reports a failed pull secret setup.
func NewContainerRegistryCannotLinkRegistryToCluster(details events.EventDetails, registry string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot link container registry `%s` to the cluster.", registry)
	return New(TagContainerRegistryCannotLinkRegistryToCluster, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryCannotCreateRegistry reports a failed registry creation.
func NewContainerRegistryCannotCreateRegistry(details events.EventDetails, registry string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot create container registry `%s`.", registry)
	return New(TagContainerRegistryCannotCreateRegistry, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryCannotDeleteRegistry reports a failed registry deletion.
func NewContainerRegistryCannotDeleteRegistry(details events.EventDetails, registry string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot delete container registry `%s`.", registry)
	return New(TagContainerRegistryCannotDeleteRegistry, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryCannotSetRepositoryTags reports a failed repository label update.
func NewContainerRegistryCannotSetRepositoryTags(details events.EventDetails, repository string, err error) *EngineError {
	msg := fmt.Sprintf("Cannot set tags on repository `%s`.", repository)
	return New(TagContainerRegistryCannotSetRepositoryTags, details, msg, fromError(msg, err), nil, "")
}

// NewContainerRegistryUnknownError wraps an unclassified registry failure.
func NewContainerRegistryUnknownError(details events.EventDetails, err error) *EngineError {
	msg := "Unknown error while interacting with the container registry."
	return New(TagContainerRegistryUnknownError, details, msg, fromError(msg, err), nil, DefaultHint)
}

// NewVaultConnectionError reports an unreachable secret store.
func NewVaultConnectionError(details events.EventDetails, err error) *EngineError {
	msg := "Cannot connect to the secret store."
	return New(TagVaultConnectionError, details, msg, fromError(msg, err), nil, "")
}

// NewVaultSecretCouldNotBeRetrieved reports a failed secret read.
func NewVaultSecretCouldNotBeRetrieved(details events.EventDetails, secret string, err error) *EngineError {
	msg := fmt.Sprintf("Secret `%s` could not be retrieved.", secret)
	return New(TagVaultSecretCouldNotBeRetrieved, details, msg, fromError(msg, err), nil, "")
}

// NewVaultSecretCouldNotBeCreatedOrUpdated reports a failed secret write.
func NewVaultSecretCouldNotBeCreatedOrUpdated(details events.EventDetails, secret string, err error) *EngineError {
	msg := fmt.Sprintf("Secret `%s` could not be created or updated.", secret)
	return New(TagVaultSecretCouldNotBeCreatedOrUpdated, details, msg, fromError(msg, err), nil, "")
}

// NewVaultSecretCouldNotBeDeleted reports a failed secret deletion.
func NewVaultSecretCouldNotBeDeleted(details events.EventDetails, secret string, err error) *EngineError {
	msg := fmt.Sprintf("Secret `%s` could not be deleted.", secret)
	return New(TagVaultSecretCouldNotBeDeleted, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageCannotDeleteFileIntoBucket reports a failed object deletion.
func NewObjectStorageCannotDeleteFileIntoBucket(details events.EventDetails, bucket, key string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot delete file `%s` from object storage bucket `%s`.", key, bucket)
	return New(TagObjectStorageCannotDeleteFileIntoBucket, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageCannotDeleteBucket reports a failed bucket deletion.
func NewObjectStorageCannotDeleteBucket(details events.EventDetails, bucket string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot delete object storage bucket `%s`.", bucket)
	return New(TagObjectStorageCannotDeleteBucket, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageCannotActivateBucketVersioning reports a failed versioning toggle.
func NewObjectStorageCannotActivateBucketVersioning(details events.EventDetails, bucket string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot activate versioning on object storage bucket `%s`.", bucket)
	return New(TagObjectStorageCannotActivateBucketVersioning, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageQuotaExceeded reports a provider bucket limit.
func NewObjectStorageQuotaExceeded(details events.EventDetails, bucket string, err error) *EngineError {
	msg := fmt.Sprintf("Error, object storage quota exceeded while creating bucket `%s`.", bucket)
	return New(TagObjectStorageQuotaExceeded, details, msg, fromError(msg, err), nil,
		"Delete unused buckets or request a higher quota from your cloud provider.")
}

// NewObjectStorageCannotEmptyBucket reports a bucket that could not be emptied.
func NewObjectStorageCannotEmptyBucket(details events.EventDetails, bucket string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot empty object storage bucket `%s`.", bucket)
	return New(TagObjectStorageCannotEmptyBucket, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageCannotTagBucket reports a failed bucket tagging.
func NewObjectStorageCannotTagBucket(details events.EventDetails, bucket string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot tag object storage bucket `%s`.", bucket)
	return New(TagObjectStorageCannotTagBucket, details, msg, fromError(msg, err), nil, "")
}

// NewObjectStorageCannotGetObjectFile reports a failed object download.
func NewObjectStorageCannotGetObjectFile(details events.EventDetails, bucket, key string, err error) *EngineError {
	msg := fmt.Sprintf("Error, cannot get file `%s` from object storage bucket `%s`.", key, bucket)
	return New(TagObjectStorageCannotGetObjectFile, details, msg, fromError(msg, err), nil, "")
}
