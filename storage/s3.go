package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/ruteri/did-crypto-service/interfaces"
)

// S3Backend publishes documents as objects under <prefix>/<type>/<id>.
// Without credentials the bucket is read anonymously and Store will only
// succeed against a publicly writable bucket.
type S3Backend struct {
	client   *s3.S3
	bucket   string
	prefix   string
	location string
	readOnly bool
	log      *slog.Logger
}

func NewS3Backend(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Backend, error) {
	cfg := aws.NewConfig().WithRegion(region)
	if endpoint != "" {
		cfg = cfg.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
	}

	readOnly := accessKey == "" || secretKey == ""
	if readOnly {
		cfg = cfg.WithCredentials(credentials.AnonymousCredentials)
		log.Warn("S3 backend has no credentials, uploads need a publicly writable bucket", slog.String("bucket", bucketName))
	} else {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(accessKey, secretKey, ""))
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}

	return &S3Backend{
		client:   s3.New(sess),
		bucket:   bucketName,
		prefix:   strings.Trim(prefix, "/"),
		location: s3LocationURI(bucketName, prefix, region, endpoint, accessKey),
		readOnly: readOnly,
		log:      log,
	}, nil
}

func (b *S3Backend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	key := b.objectKey(id, contentType)
	out, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if isS3NotFound(err) {
		return nil, interfaces.ErrContentNotFound
	}
	if err != nil {
		b.log.Error("S3 get failed", slog.String("bucket", b.bucket), slog.String("key", key), "err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", b.bucket, key, err)
	}
	return data, nil
}

// Store uploads with a public-read ACL: envelopes are ciphertext and keys are
// public halves.
func (b *S3Backend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	key := b.objectKey(id, contentType)

	_, err := b.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(objectContentType(contentType)),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		if b.readOnly {
			return id, fmt.Errorf("%w: anonymous upload rejected: %v", interfaces.ErrBackendUnavailable, err)
		}
		return id, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Debug("uploaded document", slog.String("bucket", b.bucket), slog.String("key", key))
	return id, nil
}

func (b *S3Backend) Available(ctx context.Context) bool {
	_, err := b.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.bucket)})
	if err != nil {
		b.log.Warn("S3 backend unavailable", slog.String("bucket", b.bucket), "err", err)
		return false
	}
	return true
}

func (b *S3Backend) Name() string {
	return "s3-" + b.bucket
}

func (b *S3Backend) LocationURI() string {
	return b.location
}

func (b *S3Backend) objectKey(id interfaces.ContentID, contentType interfaces.ContentType) string {
	return path.Join(b.prefix, contentType.String(), id.String())
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}

// s3LocationURI rebuilds the backend URI with the secret key masked.
func s3LocationURI(bucket, prefix, region, endpoint, accessKey string) string {
	u := url.URL{Scheme: "s3", Host: bucket, Path: "/" + strings.Trim(prefix, "/")}
	if accessKey != "" {
		u.User = url.UserPassword(accessKey, "***")
	}
	q := url.Values{}
	q.Set("region", region)
	if endpoint != "" {
		q.Set("endpoint", endpoint)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func objectContentType(contentType interfaces.ContentType) string {
	if contentType == interfaces.EnvelopeType {
		return "application/json"
	}
	return "text/plain"
}
