// Package images resolves raw image references to durable URLs on the
// public bucket. The store calls Resolve whenever an article's image is
// set or changed.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"

	"github.com/khabarhub/newsdesk/internal/config"
	"github.com/khabarhub/newsdesk/internal/utils"
)

// S3Resolver uploads image payloads to an S3-compatible bucket
// (Cloudflare R2 in production) and returns the public URL.
type S3Resolver struct {
	client     *s3.Client
	http       *resty.Client
	bucket     string
	publicBase string
}

func NewS3Resolver(ctx context.Context, cfg *config.Config) (*S3Resolver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
	})

	return &S3Resolver{
		client:     client,
		bucket:     cfg.R2Bucket,
		publicBase: strings.TrimRight(cfg.R2PublicBase, "/"),
		http: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second),
	}, nil
}

// Resolve accepts a data URI or a remote URL. References already on the
// public bucket pass through unchanged; anything else is fetched,
// content-addressed and uploaded.
func (r *S3Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	if r.publicBase != "" && strings.HasPrefix(raw, r.publicBase) {
		return raw, nil
	}

	data, contentType, err := r.payload(ctx, raw)
	if err != nil {
		return "", err
	}

	key := "images/" + utils.Hash(data) + extensionFor(contentType)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return r.publicBase + "/" + key, nil
}

func (r *S3Resolver) payload(ctx context.Context, raw string) ([]byte, string, error) {
	if strings.HasPrefix(raw, "data:") {
		return decodeDataURI(raw)
	}

	resp, err := r.http.R().SetContext(ctx).Get(raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image %s: %w", raw, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code %d downloading image %s", resp.StatusCode(), raw)
	}
	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return resp.Body(), contentType, nil
}

func decodeDataURI(raw string) ([]byte, string, error) {
	rest := strings.TrimPrefix(raw, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "text/plain"
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode data URI: %w", err)
		}
		return data, contentType, nil
	}
	return []byte(payload), contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
