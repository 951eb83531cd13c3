// Package cvsource loads résumé text from local files or S3-compatible storage.
package cvsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"cv-tailor/internal/fileio"
)

// SampleCV — встроенное резюме для быстрой проверки.
const SampleCV = `Alex Morgan
Product Designer

Experience
- Led mobile app redesign that improved activation by 18%.
- Worked closely with engineering and product teams on roadmap planning.
- Conducted user interviews and usability tests across 4 releases.

Skills
Figma, user research, prototyping, design systems, collaboration`

const s3Scheme = "s3://"

var ErrBadRef = errors.New("bad s3 reference")

// ObjectGetter — то, что нужно от клиента S3.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Options struct {
	Region    string
	Endpoint  string // R2/MinIO
	AccessKey string
	SecretKey string
}

// NewS3Client: статические ключи, если заданы, иначе стандартная цепочка AWS.
func NewS3Client(ctx context.Context, opt S3Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opt.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opt.Region))
	}
	if opt.AccessKey != "" && opt.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opt.AccessKey, opt.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opt.Endpoint != "" {
			o.BaseEndpoint = aws.String(opt.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Loader достаёт текст резюме по ссылке: путь к файлу или s3://bucket/key.
type Loader struct {
	S3 ObjectGetter // nil — s3-ссылки не поддерживаются
}

func (l Loader) Load(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, s3Scheme) {
		return l.loadS3(ctx, ref)
	}
	f, err := os.Open(ref)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return fileio.ReadText(f, ref)
}

func (l Loader) loadS3(ctx context.Context, ref string) (string, error) {
	bucket, key, err := ParseS3Ref(ref)
	if err != nil {
		return "", err
	}
	if l.S3 == nil {
		return "", fmt.Errorf("%w: s3 client is not configured", ErrBadRef)
	}

	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}
	return fileio.ReadText(buf, path.Base(key))
}

// ParseS3Ref: s3://bucket/path/to/cv.pdf -> ("bucket", "path/to/cv.pdf")
func ParseS3Ref(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(ref, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return bucket, key, nil
}
