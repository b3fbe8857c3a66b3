package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "stacklist_backend/pkg/config"
)

// Client wraps the Cloudflare R2 bucket holding relocated logos and
// screenshots.
type Client struct {
	s3         *s3.Client
	bucket     string
	publicBase string
}

func New(cfg appconfig.StorageConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	publicBase := strings.TrimSuffix(cfg.PublicBaseURL, "/")

	return &Client{
		s3:         client,
		bucket:     cfg.Bucket,
		publicBase: publicBase,
	}, nil
}

// Upload writes the object and returns its public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to storage: %v", err)
	}

	return c.publicBase + "/" + key, nil
}

// DeleteByURL removes an object previously returned by Upload. URLs outside
// the public base are ignored.
func (c *Client) DeleteByURL(ctx context.Context, url string) error {
	if c.publicBase == "" || !strings.HasPrefix(url, c.publicBase+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, c.publicBase+"/")

	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}
