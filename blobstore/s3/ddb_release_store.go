package s3

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/celltok/blobstore"
)

// ReleaseCurrentName is the virtual blob resolving to the current release's
// manifest blob name.
const ReleaseCurrentName = "CURRENT"

// DDBClient is the narrow DynamoDB interface the release store needs.
type DDBClient interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DDBReleaseStore implements blobstore.BlobStore backed by S3, with the
// current release pointer resolved from DynamoDB.
//
// Asset blobs on S3 are immutable, but "which manifest is current" changes
// with every release. S3 alone cannot express an atomic pointer swap, so
// publishers commit new versions to a DynamoDB table and consumers resolve
// the pointer with a single descending query.
//
// Table schema:
//   - Partition key: release (string) - the release channel, e.g. "esm2"
//   - Sort key: version (number) - monotonically increasing version
//   - Attribute: manifest (string) - the manifest blob name for the version
type DDBReleaseStore struct {
	s3Store   *Store
	ddbClient DDBClient
	tableName string
	release   string
}

// NewDDBReleaseStore creates a release-aware store over an S3 store.
func NewDDBReleaseStore(s3Store *Store, ddbClient DDBClient, tableName, release string) *DDBReleaseStore {
	return &DDBReleaseStore{
		s3Store:   s3Store,
		ddbClient: ddbClient,
		tableName: tableName,
		release:   release,
	}
}

// Open opens a blob for reading. Opening ReleaseCurrentName yields the
// current manifest blob name; everything else is read from S3.
func (s *DDBReleaseStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name == ReleaseCurrentName {
		version, manifest, err := s.currentVersion(ctx)
		if err != nil {
			return nil, err
		}
		if version == 0 {
			return nil, blobstore.ErrNotFound
		}

		data := []byte(manifest)
		return &currentBlob{Reader: bytes.NewReader(data), size: int64(len(data))}, nil
	}

	return s.s3Store.Open(ctx, name)
}

// List delegates to the S3 store.
func (s *DDBReleaseStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.s3Store.List(ctx, prefix)
}

// currentVersion queries DynamoDB for the latest committed release version.
func (s *DDBReleaseStore) currentVersion(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("#r = :release"),
		ExpressionAttributeNames: map[string]string{
			"#r": "release",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":release": &types.AttributeValueMemberS{Value: s.release},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("s3: query release table: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]

	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", fmt.Errorf("s3: release item missing numeric version")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("s3: parse release version: %w", err)
	}

	manifestAttr, ok := item["manifest"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", fmt.Errorf("s3: release item missing manifest name")
	}

	return version, manifestAttr.Value, nil
}

type currentBlob struct {
	*bytes.Reader
	size int64
}

func (b *currentBlob) Close() error { return nil }

func (b *currentBlob) Size() int64 { return b.size }
