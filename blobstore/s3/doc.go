// Package s3 provides S3-backed asset stores, optionally combined with a
// DynamoDB release pointer for atomically switching between frozen model
// releases.
package s3
