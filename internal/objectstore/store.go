// Package objectstore uploads downloaded granules to the S3-compatible
// bucket backing CDSE's object storage.
package objectstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store wraps an S3 client bound to one bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// NewStore loads the default AWS config chain (env vars, shared config,
// IAM role) and builds a Store for bucket.
func NewStore(ctx context.Context, bucket string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// ErrChecksumMismatch is returned when the bytes actually read do not match
// the checksum the caller asserted up front. The caller treats this as a
// transient failure per §4.3 step 5.
var ErrChecksumMismatch = fmt.Errorf("object checksum mismatch")

// ErrPartialBody is returned when fewer bytes were read than the upstream
// advertised Content-Length. Treated as a transient failure alongside a
// checksum mismatch.
var ErrPartialBody = fmt.Errorf("partial upload body")

// Put uploads body under key, asserting that its MD5 equals expectedMD5Hex
// (the upstream-declared checksum). The object store rejects the write if
// the computed Content-MD5 does not match what was sent, and this function
// additionally verifies the plaintext digest against expectedMD5Hex before
// trusting the upload, since a client-side digest mismatch should never
// reach S3 in the first place. size is the upstream-advertised content
// length; a non-positive size means the length is unknown and is not
// checked.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, expectedMD5Hex string) (location string, err error) {
	buf, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}
	if size > 0 && int64(len(buf)) != size {
		return "", ErrPartialBody
	}

	sum := md5.Sum(buf)
	if expectedMD5Hex != "" && !strings.EqualFold(hex.EncodeToString(sum[:]), expectedMD5Hex) {
		return "", ErrChecksumMismatch
	}
	contentMD5 := base64.StdEncoding.EncodeToString(sum[:])

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(key),
		Body:       bytes.NewReader(buf),
		ContentMD5: aws.String(contentMD5),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", s.bucket, key, err)
	}

	return fmt.Sprintf("%s/%s", s.bucket, key), nil
}
