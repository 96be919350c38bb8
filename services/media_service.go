package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MediaService lists signage media stored in S3. Object-store semantics stay
// external; this is a browse-and-link surface only.
type MediaService struct {
	s3     *s3.Client
	bucket string
	cdnURL string
}

type MediaFile struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	LastModified time.Time `json:"last_modified"`
}

func NewMediaService() (*MediaService, error) {
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &MediaService{
		s3:     s3.NewFromConfig(cfg),
		bucket: os.Getenv("S3_BUCKET"),
		cdnURL: os.Getenv("CLOUDFRONT_URL"),
	}, nil
}

func (m *MediaService) List(ctx context.Context, prefix string) ([]MediaFile, error) {
	out, err := m.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, err
	}

	files := make([]MediaFile, 0, len(out.Contents))
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		files = append(files, MediaFile{
			Key:          key,
			Size:         aws.ToInt64(obj.Size),
			URL:          fmt.Sprintf("%s/%s", m.cdnURL, key),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	return files, nil
}
