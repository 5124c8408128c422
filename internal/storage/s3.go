package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/adlens/internal/domain"
)

// S3API is the subset of the S3 client the exporter uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Exporter stores snapshots as JSON objects in one bucket.
type S3Exporter struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Exporter loads the default AWS config for the region (and optional
// shared profile) and creates an exporter.
func NewS3Exporter(ctx context.Context, cfg Config) (*S3Exporter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 export requires a bucket")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewS3ExporterWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

// NewS3ExporterWithClient creates an exporter around an existing client.
func NewS3ExporterWithClient(client S3API, bucket, prefix string) *S3Exporter {
	if prefix == "" {
		prefix = "reports"
	}
	return &S3Exporter{client: client, bucket: bucket, prefix: prefix}
}

// Export writes the snapshot and returns its key.
func (e *S3Exporter) Export(ctx context.Context, r *domain.ReportSnapshot) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	key := SnapshotKey(e.prefix, r.AdAccountID, r.ID)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("putting object to S3: %w", err)
	}
	return key, nil
}

// Load reads a previously exported snapshot.
func (e *S3Exporter) Load(ctx context.Context, accountID, reportID string) (*domain.ReportSnapshot, error) {
	result, err := e.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(SnapshotKey(e.prefix, accountID, reportID)),
	})
	if err != nil {
		return nil, fmt.Errorf("getting object from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("reading S3 object body: %w", err)
	}
	var r domain.ReportSnapshot
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshaling S3 data: %w", err)
	}
	return &r, nil
}
