package iofetch

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/config"
	"golang.org/x/sync/errgroup"
)

// s3Source reads snapshot objects from a bucket. Objects under the
// prefix with a .parquet suffix are downloaded, subdirectories are
// flattened.
type s3Source struct {
	cfg  config.S3Config
	jobs int
}

func newS3(cfg *config.Config) *s3Source {
	jobs := cfg.JobsNumber
	if jobs < 1 {
		jobs = 1
	}
	return &s3Source{cfg: cfg.Fetch.S3, jobs: jobs}
}

func (s *s3Source) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.cfg.Region),
	}
	if s.cfg.AccessKey != "" {
		cred := credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey, s.cfg.SecretKey, "",
		)
		opts = append(opts, awsconfig.WithCredentialsProvider(cred))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Fetch downloads Parquet objects of the bucket prefix into dir.
func (s *s3Source) Fetch(ctx context.Context, dir string) ([]string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, S3Error(s.cfg.Bucket, s.cfg.Prefix, err)
	}

	keys, err := s.list(ctx, client)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, NoFilesError("s3://" + s.cfg.Bucket + "/" + s.cfg.Prefix)
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return nil, DownloadError(dir, err)
	}

	gn.Info("Downloading <em>%d</em> files from s3://%s", len(keys), s.cfg.Bucket)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for _, k := range keys {
		g.Go(func() error {
			return s.download(ctx, client, dir, k)
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	res := make([]string, len(keys))
	for i, k := range keys {
		res[i] = filepath.Join(dir, path.Base(k))
	}
	return res, nil
}

func (s *s3Source) list(ctx context.Context, client *s3.Client) ([]string, error) {
	var res []string
	names := make(map[string]string)
	p := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(s.cfg.Prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, S3Error(s.cfg.Bucket, s.cfg.Prefix, err)
		}
		for _, o := range page.Contents {
			k := aws.ToString(o.Key)
			if !isParquet(k) {
				continue
			}
			name := path.Base(k)
			if !isBaseName(name) {
				return nil, FileNameError("s3://"+s.cfg.Bucket, k)
			}
			if prev, ok := names[name]; ok {
				return nil, NameClashError(name, prev, k)
			}
			names[name] = k
			res = append(res, k)
		}
	}
	sort.Strings(res)
	return res, nil
}

func (s *s3Source) download(
	ctx context.Context,
	client *s3.Client,
	dir, key string,
) error {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return S3Error(s.cfg.Bucket, key, err)
	}
	defer out.Body.Close()

	name := path.Base(key)
	if _, err = saveFile(dir, name, out.Body); err != nil {
		return DownloadError(name, err)
	}
	slog.Info("Downloaded snapshot object", "bucket", s.cfg.Bucket, "key", key)
	return nil
}
