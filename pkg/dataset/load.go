package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
)

const (
	s3Scheme         = "s3://"
	compressedSuffix = ".sz"
)

// S3API is the part of the S3 client Load needs
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type loadOptions struct {
	s3     S3API
	logger logging.Logger
}

// LoadOption configures Load
type LoadOption func(*loadOptions)

// WithS3Client sets the client used for s3:// URIs. Without it Load builds
// one from the default AWS credential chain.
func WithS3Client(client S3API) LoadOption {
	return func(o *loadOptions) {
		o.s3 = client
	}
}

// WithLogger sets the logger for load progress
func WithLogger(logger logging.Logger) LoadOption {
	return func(o *loadOptions) {
		o.logger = logger
	}
}

// Decode reads one JSON dataset from r
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrDatasetUnavailable, err)
	}
	return &ds, nil
}

// Load reads a dataset from a local path or an s3://bucket/key URI.
// Names ending in .sz hold snappy block-compressed JSON.
// Every failure matches ErrDatasetUnavailable.
func Load(ctx context.Context, uri string, opts ...LoadOption) (*Dataset, error) {
	o := loadOptions{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	timer := logging.StartTimer(o.logger, "dataset loaded", logging.Path(uri))

	var (
		ds  *Dataset
		err error
	)
	switch {
	case strings.HasPrefix(uri, s3Scheme):
		ds, err = loadS3(ctx, uri, o)
	case strings.HasSuffix(uri, compressedSuffix):
		ds, err = loadCompressedFile(uri)
	default:
		ds, err = loadFile(uri)
	}
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("load %s: %w", uri, err)
	}

	timer.End(
		logging.Int("time_periods", ds.TimePeriods),
		logging.Int("commodities", ds.Commodities),
		logging.Int("arcs", ds.NumArcs()),
		logging.Int("nodes", ds.NumNodes()),
	)
	return ds, nil
}

func loadFile(path string) (*Dataset, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	defer r.Close()

	return Decode(io.NewSectionReader(r, 0, int64(r.Len())))
}

func loadCompressedFile(path string) (*Dataset, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	defer r.Close()

	compressed := make([]byte, r.Len())
	if _, err := r.ReadAt(compressed, 0); err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrDatasetUnavailable, err)
	}
	return decodeCompressed(compressed)
}

func decodeCompressed(compressed []byte) (*Dataset, error) {
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: snappy: %v", ErrDatasetUnavailable, err)
	}
	return Decode(bytes.NewReader(data))
}

// splitS3URI splits s3://bucket/key
func splitS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: malformed S3 URI %q", ErrDatasetUnavailable, uri)
	}
	return bucket, key, nil
}

func loadS3(ctx context.Context, uri string, o loadOptions) (*Dataset, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, err
	}

	client := o.s3
	if client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: aws config: %v", ErrDatasetUnavailable, err)
		}
		client = s3.NewFromConfig(cfg)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get object: %v", ErrDatasetUnavailable, err)
	}
	defer out.Body.Close()

	o.logger.Debug("object fetched",
		logging.String("bucket", bucket),
		logging.String("key", key),
		logging.Int64("content_length", aws.ToInt64(out.ContentLength)))

	if strings.HasSuffix(key, compressedSuffix) {
		compressed, err := io.ReadAll(out.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read object: %v", ErrDatasetUnavailable, err)
		}
		return decodeCompressed(compressed)
	}
	return Decode(out.Body)
}
