// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"bytes"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Filesystem uploads to the stage's static bucket, which the game's
// domain serves.
type S3Filesystem struct {
	svc    s3iface.S3API
	bucket string
}

func NewS3Filesystem(session *session.Session, stage string) (*S3Filesystem, error) {
	return newS3Filesystem(s3.New(session), stage), nil
}

func newS3Filesystem(svc s3iface.S3API, stage string) *S3Filesystem {
	return &S3Filesystem{svc: svc, bucket: "tankarena-" + stage + "-static"}
}

func (s3Filesystem *S3Filesystem) Upload(file File) error {
	input := &s3.PutObjectInput{
		Bucket:       aws.String(s3Filesystem.bucket),
		Key:          aws.String(file.Key()),
		Body:         bytes.NewReader(file.Data),
		CacheControl: aws.String(file.CacheControl()),
	}
	// Patch S3's limited vocabulary of default content types
	if contentType := file.ContentType(); contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err := s3Filesystem.svc.PutObject(input)
	return err
}
