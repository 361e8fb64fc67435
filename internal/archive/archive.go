// Package archive bundles a comparison workspace into a zstd-compressed tar
// so the raw dumps and reports survive the workspace cleanup.
package archive

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"apidiff/internal/errors"
)

// Extension is the conventional suffix for archives written by WriteTarZstd.
const Extension = ".tar.zst"

// WriteTarZstd writes every regular file under dir into a zstd-compressed
// tar at dest. Entry names are relative to dir and use forward slashes.
// dest must not lie inside dir.
func WriteTarZstd(dir, dest string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.New(errors.ReportIOFailed, "failed to create archive directory", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return errors.New(errors.ReportIOFailed, "failed to create archive "+dest, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.New(errors.ReportIOFailed, "failed to close archive "+dest, cerr)
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.New(errors.InternalError, "failed to create zstd encoder", err)
	}
	tw := tar.NewWriter(zw)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return addFile(tw, path, filepath.ToSlash(rel))
	})
	if walkErr != nil {
		_ = tw.Close()
		_ = zw.Close()
		return errors.New(errors.ReportIOFailed, "failed to archive "+dir, walkErr)
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return errors.New(errors.ReportIOFailed, "failed to finish tar stream", err)
	}
	if err := zw.Close(); err != nil {
		return errors.New(errors.ReportIOFailed, "failed to finish zstd stream", err)
	}
	return nil
}

func addFile(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(tw, src)
	return err
}

// List returns the entry names of an archive written by WriteTarZstd, in
// archive order.
func List(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.ReportIOFailed, "failed to open archive "+path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, errors.New(errors.ReportIOFailed, "failed to read zstd stream", err)
	}
	defer zr.Close()

	var names []string
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, errors.New(errors.ReportIOFailed, "failed to read tar stream", err)
		}
		names = append(names, hdr.Name)
	}
}
