package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Service stores run artifacts: confirmation screenshots and batch reports.
type S3Service struct {
	s3Client *s3.S3
	bucket   string
	region   string
}

// NewS3Service builds a client from AWS_* environment variables. A missing
// configuration is an error the caller downgrades to "no artifact storage".
func NewS3Service() (*S3Service, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	bucket := os.Getenv("AWS_S3_BUCKET")

	if accessKey == "" || secretKey == "" || region == "" || bucket == "" {
		return nil, fmt.Errorf("AWS credentials not configured")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}

	return &S3Service{
		s3Client: s3.New(sess),
		bucket:   bucket,
		region:   region,
	}, nil
}

// UploadFile uploads a local file under the given key and returns the key.
func (s *S3Service) UploadFile(filePath, key string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}
	return s.UploadBytes(content, key)
}

// UploadBytes uploads raw content under the given key and returns the key.
func (s *S3Service) UploadBytes(content []byte, key string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentTypeForKey(key)),
	}
	if _, err := s.s3Client.PutObject(input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}
	return key, nil
}

func contentTypeForKey(key string) string {
	switch filepath.Ext(key) {
	case ".png":
		return "image/png"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
