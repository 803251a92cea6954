package iofetch

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// RecordError is returned when the Zenodo record cannot be read.
func RecordError(url string, err error) error {
	msg := `Cannot read Zenodo record <em>%s</em>

<em>How to fix:</em>
  1. Check network access to Zenodo
  2. Check <em>fetch.record_id</em> in config.yaml`

	return &gn.Error{
		Code: errcode.FetchRecordError,
		Msg:  msg,
		Vars: []any{url},
		Err:  fmt.Errorf("cannot get record %s: %w", url, err),
	}
}

// NoFilesError is returned when a source has no Parquet files.
func NoFilesError(source string) error {
	return &gn.Error{
		Code: errcode.FetchNoFilesError,
		Msg:  "No Parquet files found in <em>%s</em>",
		Vars: []any{source},
		Err:  fmt.Errorf("no parquet files in %s", source),
	}
}

// DownloadError is returned when a snapshot file cannot be saved.
func DownloadError(name string, err error) error {
	return &gn.Error{
		Code: errcode.FetchDownloadError,
		Msg:  "Cannot download <em>%s</em>",
		Vars: []any{name},
		Err:  fmt.Errorf("cannot download %s: %w", name, err),
	}
}

// ChecksumError is returned when a downloaded file does not match its
// published MD5 sum.
func ChecksumError(name, want, got string) error {
	msg := `File <em>%s</em> is corrupted: md5 %s, expected %s

<em>How to fix:</em>
  Run <em>mddb fetch</em> again`

	return &gn.Error{
		Code: errcode.FetchChecksumError,
		Msg:  msg,
		Vars: []any{name, got, want},
		Err:  fmt.Errorf("checksum mismatch for %s: %s != %s", name, got, want),
	}
}

// FileNameError is returned when a published file name is not a plain
// base name and cannot be saved inside the raw directory.
func FileNameError(source, name string) error {
	msg := "File <em>%s</em> of %s has an unsafe name"

	return &gn.Error{
		Code: errcode.FetchFileNameError,
		Msg:  msg,
		Vars: []any{name, source},
		Err:  fmt.Errorf("unsafe file name %q in %s", name, source),
	}
}

// NameClashError is returned when two S3 objects would be saved under
// the same file name.
func NameClashError(name, key1, key2 string) error {
	msg := `Objects <em>%s</em> and <em>%s</em> both map to file %s

<em>How to fix:</em>
  Narrow <em>fetch.s3.prefix</em> to one snapshot`

	return &gn.Error{
		Code: errcode.FetchNameClashError,
		Msg:  msg,
		Vars: []any{key1, key2, name},
		Err:  fmt.Errorf("s3 keys %s and %s clash on %s", key1, key2, name),
	}
}

// S3Error is returned when the S3 source cannot be listed or read.
func S3Error(bucket, key string, err error) error {
	msg := `Cannot read <em>s3://%s/%s</em>

<em>How to fix:</em>
  Check <em>fetch.s3</em> settings in config.yaml`

	return &gn.Error{
		Code: errcode.FetchS3Error,
		Msg:  msg,
		Vars: []any{bucket, key},
		Err:  fmt.Errorf("s3 %s/%s: %w", bucket, key, err),
	}
}
