// Package iofetch downloads the raw catalog snapshot from Zenodo or
// from an S3 bucket.
package iofetch

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdverse/mddb/pkg/config"
	"github.com/mdverse/mddb/pkg/mddb"
)

// New returns a Retriever for the source set in the configuration.
func New(cfg *config.Config) (mddb.Retriever, error) {
	switch cfg.Fetch.Source {
	case "s3":
		return newS3(cfg), nil
	default:
		return newZenodo(cfg), nil
	}
}

func isParquet(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".parquet")
}

// isBaseName reports whether name can be used as a file name directly
// inside the download directory.
func isBaseName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// saveFile copies r to dir/name through a temporary file and returns
// the hex MD5 sum of the content. The target appears only after a
// complete copy.
func saveFile(dir, name string, r io.Reader) (string, error) {
	if !isBaseName(name) {
		return "", fmt.Errorf("file name %q is not a base name", name)
	}
	path := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	h := md5.New()
	_, err = io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		tmp.Close()
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
