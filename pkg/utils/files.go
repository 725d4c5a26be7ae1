package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"github.com/bodgit/sevenzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyArchive is returned when an archive holds no files.
var ErrEmptyArchive = errors.New("archive contains no files")

// LoadFile loads the given file and performs decompression if
// necessary. Archives (.zip, .7z) yield their first file.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data)
	var decoder io.ReadCloser
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".gz":
		decoder, err = gzip.NewReader(r)
	case ".zip":
		var zipReader *zip.Reader
		if zipReader, err = zip.NewReader(r, int64(len(data))); err != nil {
			break
		}
		if len(zipReader.File) == 0 {
			return nil, fmt.Errorf("%s: %w", filename, ErrEmptyArchive)
		}
		decoder, err = zipReader.File[0].Open()
	case ".7z":
		var szReader *sevenzip.Reader
		if szReader, err = sevenzip.NewReader(r, int64(len(data))); err != nil {
			break
		}
		if len(szReader.File) == 0 {
			return nil, fmt.Errorf("%s: %w", filename, ErrEmptyArchive)
		}
		decoder, err = szReader.File[0].Open()
	default:
		// return the data as is
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	defer decoder.Close()

	// read the decompressed data into a byte slice
	if data, err = io.ReadAll(decoder); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return data, nil
}
