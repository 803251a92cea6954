package iofetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/mdverse/mddb/pkg/config"
	"golang.org/x/sync/errgroup"
)

// record is the part of a Zenodo record used for downloads.
type record struct {
	ID    any          `json:"id"`
	Files []recordFile `json:"files"`
}

type recordFile struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
	Links    struct {
		Self string `json:"self"`
	} `json:"links"`
}

// md5 returns the MD5 part of a checksum like "md5:abc".
func (f recordFile) md5() string {
	algo, sum, ok := strings.Cut(f.Checksum, ":")
	if !ok || algo != "md5" {
		return ""
	}
	return sum
}

type zenodo struct {
	baseURL  string
	recordID string
	jobs     int
	client   *retryablehttp.Client
}

func newZenodo(cfg *config.Config) *zenodo {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Fetch.Retries
	client.Logger = slog.Default()

	jobs := cfg.JobsNumber
	if jobs < 1 {
		jobs = 1
	}
	return &zenodo{
		baseURL:  strings.TrimRight(cfg.Fetch.ZenodoURL, "/"),
		recordID: cfg.Fetch.RecordID,
		jobs:     jobs,
		client:   client,
	}
}

func (z *zenodo) recordURL() string {
	return fmt.Sprintf("%s/api/records/%s", z.baseURL, z.recordID)
}

// Fetch downloads every Parquet file of the record into dir.
func (z *zenodo) Fetch(ctx context.Context, dir string) ([]string, error) {
	files, err := z.parquetFiles(ctx)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return nil, DownloadError(dir, err)
	}

	gn.Info("Downloading <em>%d</em> files of Zenodo record %s", len(files), z.recordID)
	bar := pb.Full.Start(len(files))
	bar.Set("prefix", "Files: ")
	bar.Set(pb.CleanOnFinish, true)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(z.jobs)
	for _, f := range files {
		g.Go(func() error {
			defer bar.Increment()
			return z.download(ctx, dir, f)
		})
	}
	err = g.Wait()
	bar.Finish()
	if err != nil {
		return nil, err
	}

	res := make([]string, len(files))
	for i, f := range files {
		res[i] = filepath.Join(dir, f.Key)
	}
	return res, nil
}

func (z *zenodo) parquetFiles(ctx context.Context) ([]recordFile, error) {
	url := z.recordURL()
	body, err := z.get(ctx, url)
	if err != nil {
		return nil, RecordError(url, err)
	}

	var rec record
	if err = (gnfmt.GNjson{}).Decode(body, &rec); err != nil {
		return nil, RecordError(url, err)
	}

	var res []recordFile
	for _, f := range rec.Files {
		if !isParquet(f.Key) {
			continue
		}
		if !isBaseName(f.Key) {
			return nil, FileNameError(url, f.Key)
		}
		res = append(res, f)
	}
	if len(res) == 0 {
		return nil, NoFilesError(url)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res, nil
}

func (z *zenodo) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := z.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (z *zenodo) open(ctx context.Context, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := z.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp, nil
}

func (z *zenodo) download(ctx context.Context, dir string, f recordFile) error {
	resp, err := z.open(ctx, f.Links.Self)
	if err != nil {
		return DownloadError(f.Key, err)
	}
	defer resp.Body.Close()

	sum, err := saveFile(dir, f.Key, resp.Body)
	if err != nil {
		return DownloadError(f.Key, err)
	}
	if want := f.md5(); want != "" && want != sum {
		os.Remove(filepath.Join(dir, f.Key))
		return ChecksumError(f.Key, want, sum)
	}
	slog.Info("Downloaded snapshot file", "file", f.Key, "bytes", f.Size)
	return nil
}
