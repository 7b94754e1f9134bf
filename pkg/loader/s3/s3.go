package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/guidechat/backend/pkg/loader"
)

// ObjectAPI is the part of the S3 client the source needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// ObjectSource loads knowledge files from an S3 bucket, optionally below a
// key prefix. Like the filesystem source it never caches.
type ObjectSource struct {
	bucket string
	prefix string
	client ObjectAPI
}

// NewObjectSourceWithClient creates an ObjectSource using an existing client.
func NewObjectSourceWithClient(bucket, prefix string, client ObjectAPI) *ObjectSource {
	return &ObjectSource{
		bucket: bucket,
		prefix: normalizePrefix(prefix),
		client: client,
	}
}

// NewObjectSourceParams defines the configuration parameters for
// creating a new ObjectSource.
//
// Endpoint allows overriding the S3 endpoint (useful for S3-compatible
// storage like MinIO). Prefix is prepended to every file name.
type NewObjectSourceParams struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewObjectSource creates an ObjectSource with static credentials.
//
// Example:
//
//	source, err := s3.NewObjectSource(ctx, s3.NewObjectSourceParams{
//		Bucket:    "guide-knowledge",
//		Prefix:    "categories/",
//		Region:    "eu-central-1",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
//		SecretKey: os.Getenv("AWS_SECRET_KEY"),
//	})
func NewObjectSource(ctx context.Context, params NewObjectSourceParams) (*ObjectSource, error) {
	if params.Bucket == "" {
		return nil, errors.New("s3: missing bucket")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}
	if params.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return NewObjectSourceWithClient(params.Bucket, params.Prefix, client), nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// ReadFile fetches prefix+name from the bucket.
func (s *ObjectSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	clean, err := loader.CleanName(name)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + clean),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", loader.ErrNotFound, clean)
		}
		return nil, fmt.Errorf("failed to get %s from S3: %w", clean, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", clean, err)
	}

	return buf.Bytes(), nil
}

// List returns the file names directly below the prefix, sorted.
func (s *ObjectSource) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}

	for {
		listOutput, err := s.client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", s.prefix, err)
		}

		for _, obj := range listOutput.Contents {
			if obj.Key == nil {
				continue
			}
			name := strings.TrimPrefix(*obj.Key, s.prefix)
			if name != "" && !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	sort.Strings(names)
	return names, nil
}

var (
	_ loader.Source = (*ObjectSource)(nil)
	_ loader.Lister = (*ObjectSource)(nil)
)
