// Package s3 stores workspace archives in S3-compatible object storage.
//
// Buckets are created on first use; an existing bucket owned by the same
// account is accepted as is.
package s3
