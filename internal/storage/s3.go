// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage stores uploaded portfolio and testimonial images in an
// S3-compatible bucket. It wraps the AWS SDK v2 with path-style access so
// it works against MinIO, CEPH and Hetzner as well as AWS.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Folder is the key prefix an image is filed under.
type Folder string

const (
	FolderPortfolio    Folder = "portfolio"
	FolderTestimonials Folder = "testimonials"
)

// MaxImageSize caps a single upload.
const MaxImageSize = 5 << 20

// ErrUnsupportedImage is returned for uploads that are not a JPEG, PNG,
// WebP or GIF image, or that exceed MaxImageSize.
var ErrUnsupportedImage = errors.New("unsupported image")

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Client uploads to a single public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates a storage client. Returns (nil, nil) if the endpoint or the
// credentials are empty so the app can run without uploads.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, errors.New("storage: bucket name is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")
	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadImage sniffs body, stores it under <folder>/<uuid><ext> with a
// public-read ACL and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, folder Folder, body io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrUnsupportedImage, MaxImageSize)
	}

	contentType, ext, err := sniffImage(data)
	if err != nil {
		return "", err
	}

	key := objectKey(folder, uuid.New(), ext)
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// DeleteByURL removes an object previously returned by UploadImage. URLs
// that do not point into this bucket are ignored.
func (c *Client) DeleteByURL(ctx context.Context, rawURL string) error {
	key, ok := c.keyFromURL(rawURL)
	if !ok {
		return nil
	}
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for a key. Uses the configured public URL
// if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

func (c *Client) keyFromURL(rawURL string) (string, bool) {
	for _, prefix := range []string{c.publicURL, c.endpoint + "/" + c.bucket} {
		if prefix == "" {
			continue
		}
		if key, ok := strings.CutPrefix(rawURL, prefix+"/"); ok && key != "" {
			return key, true
		}
	}
	return "", false
}

func objectKey(folder Folder, id uuid.UUID, ext string) string {
	return path.Join(string(folder), id.String()+ext)
}

func sniffImage(data []byte) (contentType, ext string, err error) {
	contentType = http.DetectContentType(data)
	ext, ok := imageExt[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}
	return contentType, ext, nil
}
