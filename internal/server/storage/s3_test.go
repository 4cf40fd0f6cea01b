package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage() *S3Storage {
	return NewS3Storage(S3Config{
		User:         "minioadmin",
		Password:     "minioadmin",
		Bucket:       "resumes",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})
}

func TestNewObjectKey(t *testing.T) {
	a := NewObjectKey("acct-1")
	b := NewObjectKey("acct-1")

	assert.True(t, strings.HasPrefix(a, "resumes/acct-1/"))
	assert.Len(t, strings.Split(a, "/"), 6)
	assert.NotEqual(t, a, b)
}

func TestPresignClient_AppliesConfig(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	pc, err := testStorage().presignClient(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pc)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestPresignClient_LoadError(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := testStorage().PresignPut(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config")

	_, err = testStorage().PresignGet(context.Background(), "k")
	require.Error(t, err)
}

func stubClient(t *testing.T) {
	t.Helper()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
}

func TestPresignPut(t *testing.T) {
	restoreSeams(t)
	stubClient(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "resumes", *in.Bucket)
		assert.Equal(t, "resumes/a/key", *in.Key)

		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, PresignExpiry, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "https://put"}, nil
	}

	url, err := testStorage().PresignPut(context.Background(), "resumes/a/key")
	require.NoError(t, err)
	assert.Equal(t, "https://put", url)
}

func TestPresignPut_Error(t *testing.T) {
	restoreSeams(t)
	stubClient(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}

	_, err := testStorage().PresignPut(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presign put")
}

func TestPresignGet(t *testing.T) {
	restoreSeams(t)
	stubClient(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "k", *in.Key)
		return &v4.PresignedHTTPRequest{URL: "https://get"}, nil
	}

	url, err := testStorage().PresignGet(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "https://get", url)
}

func TestPresignGet_Error(t *testing.T) {
	restoreSeams(t)
	stubClient(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}

	_, err := testStorage().PresignGet(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presign get")
}
