package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresConfiguration(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Bucket: "cvs"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestObjectKeyKeepsExtension(t *testing.T) {
	key := ObjectKey("/cv/user-1/", "My Resume.PDF")

	assert.True(t, strings.HasPrefix(key, "cv/user-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotContains(t, key, "My Resume")
}

func TestPresignPut(t *testing.T) {
	var gotKey, gotType string
	c := &Client{
		cfg: Config{Bucket: "cvs", PublicBaseURL: "https://cdn.example.com", URLTTL: 10 * time.Minute},
		presign: func(_ context.Context, in *s3.PutObjectInput, ttl time.Duration) (string, map[string]string, error) {
			gotKey = aws.ToString(in.Key)
			gotType = aws.ToString(in.ContentType)
			assert.Equal(t, 10*time.Minute, ttl)
			return "https://signed.example.com/" + gotKey, map[string]string{"Content-Type": gotType}, nil
		},
	}

	up, err := c.PresignPut(context.Background(), "cv/user-1", "resume.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)

	assert.Equal(t, "PUT", up.Method)
	assert.Equal(t, "https://cdn.example.com/"+gotKey, up.ObjectURL)
	assert.Equal(t, gotKey, up.Key)
	assert.True(t, strings.HasSuffix(up.ObjectURL, ".docx"))
	assert.Contains(t, gotType, "wordprocessingml")
}

func TestPresignPutError(t *testing.T) {
	c := &Client{
		cfg: Config{Bucket: "cvs"},
		presign: func(context.Context, *s3.PutObjectInput, time.Duration) (string, map[string]string, error) {
			return "", nil, errors.New("signing failed")
		},
	}

	_, err := c.PresignPut(context.Background(), "logo/1", "logo.png", "")
	assert.ErrorContains(t, err, "signing failed")
}
