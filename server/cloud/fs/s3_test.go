// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records puts. Other methods panic.
type fakeS3 struct {
	s3iface.S3API
	puts []*s3.PutObjectInput
	err  error
}

func (f *fakeS3) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, input)
	return &s3.PutObjectOutput{}, f.err
}

func TestFileKey(t *testing.T) {
	tests := []struct {
		name, key string
	}{
		{LeaderboardName, "leaderboard.json"},
		{"/leaderboard.json", "leaderboard.json"},
		{"../../etc/passwd", "etc/passwd"},
		{RelayStatusName("us-east-1", 2), "relays/us-east-1/2.json"},
	}
	for _, test := range tests {
		assert.Equal(t, test.key, File{Name: test.name}.Key(), test.name)
	}
}

func TestS3Upload(t *testing.T) {
	svc := &fakeS3{}
	var s3Filesystem Filesystem = newS3Filesystem(svc, "prod")

	require.NoError(t, s3Filesystem.Upload(File{Name: RelayStatusName("eu", 1), MaxAge: 30 * time.Second, Data: []byte(`{"rooms":2}`)}))
	require.Len(t, svc.puts, 1)
	put := svc.puts[0]
	assert.Equal(t, "tankarena-prod-static", aws.StringValue(put.Bucket))
	assert.Equal(t, "relays/eu/1.json", aws.StringValue(put.Key))
	assert.Equal(t, "no-transform, public, max-age=30", aws.StringValue(put.CacheControl))
	assert.Equal(t, "application/json", aws.StringValue(put.ContentType))
	body, err := io.ReadAll(put.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"rooms":2}`, string(body))

	// S3 guesses other types itself.
	require.NoError(t, s3Filesystem.Upload(File{Name: "arena.png"}))
	assert.Nil(t, svc.puts[1].ContentType)

	svc.err = errors.New("throttled")
	assert.ErrorIs(t, s3Filesystem.Upload(File{Name: LeaderboardName}), svc.err)
}
