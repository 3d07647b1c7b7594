package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Object key prefixes. Everything under private/ is never served from the
// CDN and is only read back by staff endpoints.
const (
	PrefixListings = "listings"
	PrefixBlog     = "blog"
	PrefixPrivate  = "private/passports"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func cdnBase() string {
	if base := os.Getenv("CDN_BASE_URL"); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	return "https://cdn.siamestates.co.th"
}

type UploadResult struct {
	URL string // empty for private objects
	Key string
}

func uniqueFilename(original string) string {
	ext := filepath.Ext(original)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
}

func put(key, contentType string, body *bytes.Buffer) error {
	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body.Bytes()),
		ContentType: aws.String(contentType),
	}

	if _, err := client.PutObject(context.TODO(), input); err != nil {
		return fmt.Errorf("could not upload file to R2: %v", err)
	}
	return nil
}

// UploadListingImage stores a processed listing image under the public
// CDN-served prefix and returns its URL.
func UploadListingImage(propertySlug, filename, contentType string, body *bytes.Buffer) (UploadResult, error) {
	key := filepath.Join(PrefixListings, slug.Make(propertySlug), "images", uniqueFilename(filename))
	if err := put(key, contentType, body); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: cdnBase() + "/" + key, Key: key}, nil
}

// UploadBlogCover stores an AI-generated cover image for a blog post.
func UploadBlogCover(blogSlug, filename, contentType string, body *bytes.Buffer) (UploadResult, error) {
	key := filepath.Join(PrefixBlog, slug.Make(blogSlug), uniqueFilename(filename))
	if err := put(key, contentType, body); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: cdnBase() + "/" + key, Key: key}, nil
}

// UploadPassport stores a passport document under the private prefix. Only
// the object key is returned; there is no public URL for these.
func UploadPassport(offerReference, filename, contentType string, body *bytes.Buffer) (UploadResult, error) {
	key := filepath.Join(PrefixPrivate, slug.Make(offerReference), uniqueFilename(filename))
	if err := put(key, contentType, body); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Key: key}, nil
}

// DeleteObject removes an object given its CDN URL or raw key.
func DeleteObject(urlOrKey string) error {
	key := strings.TrimPrefix(urlOrKey, cdnBase()+"/")

	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(key),
	}

	if _, err := client.DeleteObject(context.TODO(), input); err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}
