package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/api"
)

type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the client; Endpoint and static credentials are only
// needed for S3-compatible stores such as MinIO.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// S3Exporter uploads dashboard snapshots as JSON objects under
// <prefix>/<yyyy>/<mm>/<dd>/dashboard-<uuid>.json.
type S3Exporter struct {
	client PutObjectAPI
	bucket string
	prefix string
	now    func() time.Time
	newID  func() string
}

func NewS3Exporter(client PutObjectAPI, bucket, prefix string) (*S3Exporter, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, apperrors.NewValidationError("s3 bucket required")
	}
	return &S3Exporter{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

func (e *S3Exporter) key() string {
	day := e.now().UTC().Format("2006/01/02")
	return path.Join(e.prefix, day, "dashboard-"+e.newID()+".json")
}

// ExportDashboard uploads the dashboard and returns the object key.
func (e *S3Exporter) ExportDashboard(ctx context.Context, dashboard api.Dashboard) (string, error) {
	body, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode dashboard: %w", err)
	}

	key := e.key()
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"tests": strconv.Itoa(len(dashboard.Tests)),
		},
	})
	if err != nil {
		return "", apperrors.NewExternalError(fmt.Sprintf("upload s3://%s/%s", e.bucket, key), err)
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", e.bucket).
		Str("key", key).
		Int("bytes", len(body)).
		Msg("dashboard exported")
	return key, nil
}
