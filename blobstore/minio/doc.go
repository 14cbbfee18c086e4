// Package minio provides a MinIO-backed asset store for S3-compatible
// on-prem object storage.
package minio
