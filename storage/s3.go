package storage

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Settings points at an S3-compatible bucket.
type S3Settings struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// ObjectAPI is the part of the S3 client used for snapshots.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client creates a client for the configured endpoint with static credentials.
func NewS3Client(ctx context.Context, st S3Settings) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(st.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(st.AccessKey, st.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// UploadObject stores data under key and returns its s3:// location.
func UploadObject(ctx context.Context, client ObjectAPI, bucket, key string, data []byte) (string, error) {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// ObjectInfo is a listed object.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// ExpiredSnapshots returns the keys beyond the keep newest objects, newest first.
func ExpiredSnapshots(objs []ObjectInfo, keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if len(objs) <= keep {
		return nil
	}
	sorted := append([]ObjectInfo(nil), objs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastModified.After(sorted[j].LastModified)
	})

	out := make([]string, 0, len(sorted)-keep)
	for _, o := range sorted[keep:] {
		out = append(out, o.Key)
	}
	return out
}

// RotateSnapshots deletes all but the keep newest objects under prefix.
// A failed delete is logged and the rotation carries on.
func RotateSnapshots(ctx context.Context, client ObjectAPI, bucket, prefix string, keep int, log *zap.Logger) ([]string, error) {
	var objs []ObjectInfo
	p := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		for _, o := range page.Contents {
			key := aws.ToString(o.Key)
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			objs = append(objs, ObjectInfo{Key: key, LastModified: aws.ToTime(o.LastModified)})
		}
	}

	expired := ExpiredSnapshots(objs, keep)
	if len(expired) == 0 {
		log.Info("No snapshot rotation needed", zap.Int("snapshots", len(objs)), zap.Int("keep", keep))
		return nil, nil
	}

	deleted := make([]string, 0, len(expired))
	for _, key := range expired {
		log.Info("Deleting old snapshot", zap.String("key", key))
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			log.Warn("Deleting snapshot failed", zap.String("key", key), zap.Error(err))
			continue
		}
		deleted = append(deleted, key)
	}
	return deleted, nil
}
