package s3

import (
	"context"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/util/naming"
)

// ArchiveContentType is the content type of uploaded workspace archives.
const ArchiveContentType = "application/gzip"

// ArchiveStore uploads workspace archives to a single bucket.
type ArchiveStore struct {
	client *Client
	bucket string
}

// NewArchiveStore creates an ArchiveStore writing into bucket.
func NewArchiveStore(client *Client, bucket string) *ArchiveStore {
	return &ArchiveStore{client: client, bucket: bucket}
}

// ArchiveKey is the object key of the archive of one execution.
func ArchiveKey(organizationID, clusterID, executionID string) string {
	return naming.Archive(organizationID, clusterID, executionID)
}

// Upload stores data under the execution's archive key, creating the
// bucket first when needed.
func (s *ArchiveStore) Upload(ctx context.Context, details events.EventDetails, data []byte) error {
	if !ValidBucketName(s.bucket) {
		return engineerr.NewObjectStorageInvalidBucketName(details, s.bucket)
	}
	if err := s.client.EnsureBucket(ctx, s.bucket); err != nil {
		return engineerr.NewObjectStorageCannotCreateBucket(details, s.bucket, err)
	}

	key := ArchiveKey(details.OrganizationID(), details.ClusterID(), details.ExecutionID())
	if err := s.client.PutObject(ctx, s.bucket, key, ArchiveContentType, data); err != nil {
		return engineerr.NewObjectStorageCannotPutFileIntoBucket(details, s.bucket, key, err)
	}
	return nil
}
