package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	Client S3API
	Bucket string
	Prefix string
}

// Key joins the uploader prefix with the given parts.
func (u *Uploader) Key(parts ...string) string {
	all := append([]string{strings.Trim(u.Prefix, "/")}, parts...)
	return strings.TrimPrefix(path.Join(all...), "/")
}

// Location is the s3:// URI of a key prefix, with a trailing slash.
func (u *Uploader) Location(parts ...string) string {
	return "s3://" + u.Bucket + "/" + strings.TrimSuffix(u.Key(parts...), "/") + "/"
}

func (u *Uploader) Put(ctx context.Context, key, contentType string, body []byte) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := u.Client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.Bucket, key, err)
	}
	return nil
}

// PutFile uploads a local file as key.
func (u *Uploader) PutFile(ctx context.Context, key, contentType, file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return u.Put(ctx, key, contentType, b)
}
