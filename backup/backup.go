// Package backup copies database backing stores between the data directory
// and remote locations. A location is a plain path, a file:// or s3:// URL,
// or, for restore only, an http(s):// URL.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config carries explicit S3 settings; zero values fall back to the AWS
// default credential chain.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // custom S3-compatible endpoint
}

// location is a parsed dump target or restore source.
type location struct {
	scheme string // "", "file", "s3", "http", "https"
	path   string // local and file:// locations
	bucket string // s3 only
	key    string // s3 only
	url    string // http(s) only
}

func parseLocation(raw string) (location, error) {
	if !strings.Contains(raw, "://") {
		return location{path: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return location{}, fmt.Errorf("invalid location %s: %w", raw, err)
	}
	switch scheme := strings.ToLower(u.Scheme); scheme {
	case "file":
		return location{scheme: scheme, path: u.Path}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return location{}, fmt.Errorf("invalid S3 location %s: want s3://bucket/key", raw)
		}
		return location{scheme: scheme, bucket: u.Host, key: key}, nil
	case "http", "https":
		return location{scheme: scheme, url: raw}, nil
	default:
		return location{}, fmt.Errorf("unsupported location scheme: %s", raw)
	}
}

// Dump copies the backing store at srcPath to target.
func Dump(ctx context.Context, srcPath, target string, cfg *S3Config) error {
	loc, err := parseLocation(target)
	if err != nil {
		return err
	}
	switch loc.scheme {
	case "", "file":
		return copyFile(srcPath, loc.path)
	case "s3":
		data, err := os.ReadFile(srcPath)
		if err != nil {
			return fmt.Errorf("failed to read backing store %s: %w", srcPath, err)
		}
		return putS3Object(ctx, loc, cfg, data)
	default:
		return fmt.Errorf("cannot dump to %s: http locations are restore only", target)
	}
}

// Restore copies a dumped backing store from source to dstPath.
func Restore(ctx context.Context, source, dstPath string, cfg *S3Config) error {
	loc, err := parseLocation(source)
	if err != nil {
		return err
	}
	switch loc.scheme {
	case "", "file":
		return copyFile(loc.path, dstPath)
	case "http", "https":
		body, err := fetchHTTP(ctx, loc.url)
		if err != nil {
			return err
		}
		defer body.Close()
		return writeFileFrom(dstPath, body)
	default:
		body, err := getS3Object(ctx, loc, cfg)
		if err != nil {
			return err
		}
		defer body.Close()
		return writeFileFrom(dstPath, body)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()
	return writeFileFrom(dst, in)
}

func writeFileFrom(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return out.Close()
}

func fetchHTTP(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	client := &http.Client{Timeout: 5 * time.Minute}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid location %s: %w", rawURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func newS3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg != nil {
		if cfg.Region != "" {
			opts = append(opts, config.WithRegion(cfg.Region))
		}
		if cfg.AccessKey != "" && cfg.SecretKey != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
		}
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg != nil && cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // for S3-compatible services
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// putS3Object uploads the whole store in one request; backing stores are
// single files small enough for one PutObject.
func putS3Object(ctx context.Context, loc location, cfg *S3Config, data []byte) error {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(loc.bucket),
		Key:    aws.String(loc.key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", loc.bucket, loc.key, err)
	}
	return nil
}

func getS3Object(ctx context.Context, loc location, cfg *S3Config) (io.ReadCloser, error) {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.bucket),
		Key:    aws.String(loc.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", loc.bucket, loc.key, err)
	}
	return resp.Body, nil
}
