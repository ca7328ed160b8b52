package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignTTL = 15 * time.Minute

type ItfS3 interface {
	UploadReport(ctx context.Context, name string, body []byte, contentType string) (string, error)
	PresignUrl(fileUrl string) (string, error)
}

type s3Client struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	bucketName string
	prefix     string
	now        func() time.Time
}

// New builds the report archive from AWS_* variables. AWS_REPORT_PREFIX
// defaults to "reports".
func New() (ItfS3, error) {
	bucket := os.Getenv("AWS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET_NAME not set")
	}

	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	prefix := os.Getenv("AWS_REPORT_PREFIX")
	if prefix == "" {
		prefix = "reports"
	}

	return &s3Client{
		client:     s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		bucketName: bucket,
		prefix:     strings.Trim(prefix, "/"),
		now:        time.Now,
	}, nil
}

// UploadReport stores body under <prefix>/<yyyy>/<mm>/<timestamp>-<name>
// and returns the object location.
func (s *s3Client) UploadReport(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	key := reportKey(s.prefix, name, s.now())

	uploadOutput, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return uploadOutput.Location, nil
}

// PresignUrl returns a short-lived GET link for an uploaded object,
// given either its location or its key.
func (s *s3Client) PresignUrl(fileUrl string) (string, error) {
	key, err := objectKey(fileUrl)
	if err != nil {
		return "", err
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})

	urlStr, err := req.Presign(presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return urlStr, nil
}

func reportKey(prefix, name string, at time.Time) string {
	at = at.UTC()
	file := fmt.Sprintf("%s-%s", at.Format("20060102T150405Z"), path.Base(name))
	return path.Join(prefix, at.Format("2006"), at.Format("01"), file)
}

// objectKey accepts virtual-hosted and path-style locations, or a bare key.
func objectKey(location string) (string, error) {
	if !strings.Contains(location, "://") {
		return strings.TrimPrefix(location, "/"), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse object location: %w", err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	// path-style: s3.<region>.amazonaws.com/<bucket>/<key>
	if strings.HasPrefix(u.Host, "s3.") || strings.HasPrefix(u.Host, "s3-") {
		if _, rest, ok := strings.Cut(key, "/"); ok {
			key = rest
		}
	}
	if key == "" {
		return "", fmt.Errorf("object location %q has no key", location)
	}

	return key, nil
}

func newSession() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	})

	if err != nil {
		return nil, err
	}

	return sess, nil
}
