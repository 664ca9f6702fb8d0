package s3

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"roamers-service/internal/config"
)

const uploadURLExpiry = 15 * time.Minute

// FilePresigner hands out presigned PUT URLs so admins upload spot images
// straight to the bucket.
type FilePresigner struct {
	client     *s3.PresignClient
	bucketName string
	endpoint   string
}

func NewFilePresigner(ctx context.Context, cfg config.S3Config) (*FilePresigner, error) {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &FilePresigner{
		client:     s3.NewPresignClient(s3Client),
		bucketName: cfg.BucketName,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
	}, nil
}

func (p *FilePresigner) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(objectKey),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	request, err := p.client.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return "", err
	}

	return request.URL, nil
}

// PublicURL is where the object can be read once uploaded.
func (p *FilePresigner) PublicURL(objectKey string) string {
	return p.endpoint + "/" + p.bucketName + "/" + objectKey
}
