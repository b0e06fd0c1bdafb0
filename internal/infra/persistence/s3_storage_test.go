package persistence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	headErr error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestS3Storage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	reloader := &countingReloader{}
	store := NewS3StorageWithClient(client, "bucket", "Kits/Kits.json", "kitsextension", reloader, discardLogger())

	empty, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	cat := sampleCatalogue()
	require.NoError(t, store.SaveAll(ctx, cat))
	assert.Contains(t, client.objects, "bucket/Kits/Kits.json")
	assert.EqualValues(t, 1, reloader.signals.Load())

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, cat.Len(), loaded.Len())
	assert.True(t, loaded.Kits[1].IsInstance())
}

func TestS3Storage_HealthCheck(t *testing.T) {
	client := newFakeS3()
	client.headErr = errors.New("forbidden")
	store := NewS3StorageWithClient(client, "bucket", "Kits/Kits.json", "kitsextension", nil, discardLogger())

	assert.ErrorIs(t, store.HealthCheck(context.Background()), app_errors.ErrDependencyUnavailable)
}
