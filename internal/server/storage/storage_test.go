package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	k := NewKey(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^arquivos/2024/03/07/[0-9a-f-]{36}$`), k)
	assert.NotEqual(t, k, NewKey(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.Put(ctx, "k", strings.NewReader("hello"), 5, "text/plain"))

	rc, err := m.Get(ctx, "k")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

type fakeS3 struct {
	LastPut *s3.PutObjectInput
	LastGet *s3.GetObjectInput
	body    string
	getErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.LastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.LastGet = in
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func withFakeS3(t *testing.T, fake *fakeS3) *s3.Options {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew
	})

	applied := &s3.Options{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		if lo.Credentials == nil {
			t.Fatalf("static credentials not applied")
		}
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(applied)
		}
		return fake
	}
	return applied
}

func TestS3Store_PutGet(t *testing.T) {
	fake := &fakeS3{body: "payload"}
	applied := withFakeS3(t, fake)

	st, err := NewS3Store(context.Background(), S3Options{
		Bucket: "files", Region: "us-east-1", BaseEndpoint: "http://127.0.0.1:9000",
		AccessKey: "minio", SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(applied.BaseEndpoint))
	assert.True(t, applied.UsePathStyle)

	require.NoError(t, st.Put(context.Background(), "a/b", strings.NewReader("x"), 1, "text/plain"))
	assert.Equal(t, "files", aws.ToString(fake.LastPut.Bucket))
	assert.Equal(t, "a/b", aws.ToString(fake.LastPut.Key))
	assert.Equal(t, int64(1), aws.ToInt64(fake.LastPut.ContentLength))

	rc, err := st.Get(context.Background(), "a/b")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "payload", string(b))
}

func TestS3Store_GetErrors(t *testing.T) {
	fake := &fakeS3{getErr: &types.NoSuchKey{}}
	withFakeS3(t, fake)

	st, err := NewS3Store(context.Background(), S3Options{Bucket: "b", Region: "us-east-1", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)

	_, err = st.Get(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	fake.getErr = errors.New("boom")
	_, err = st.Get(context.Background(), "x")
	assert.ErrorContains(t, err, "boom")
}
