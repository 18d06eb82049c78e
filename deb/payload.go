package deb

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ErrNotFound is returned when a file is not part of the package payload.
var ErrNotFound = errors.New("file not found in package")

// maxLinkDepth bounds the number of links followed when extracting a file.
const maxLinkDepth = 8

// ExtractFileFrom reads the .deb at debPath and returns the content of the
// file installed at name.
func ExtractFileFrom(debPath, name string) ([]byte, error) {
	data, err := os.ReadFile(debPath)
	if err != nil {
		return nil, err
	}
	content, err := ExtractFile(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", debPath, err)
	}
	return content, nil
}

// ExtractFile returns the content of the file installed at name by the .deb
// package in data. Symbolic and hard links inside the payload are followed.
// It returns an error wrapping ErrNotFound if the payload has no such file.
func ExtractFile(data []byte, name string) ([]byte, error) {
	want := cleanPath(name)
	for depth := 0; depth < maxLinkDepth; depth++ {
		content, link, err := extractPayloadFile(data, want)
		if err != nil {
			return nil, err
		}
		if link == "" {
			return content, nil
		}
		want = link
	}
	return nil, fmt.Errorf("too many links resolving %s", name)
}

// extractPayloadFile iterates through the AR archive structure of a .deb file
// to locate the data.tar member, and then looks for the file at want within
// that tarball. If the entry is a link, its resolved target is returned
// instead of the content.
func extractPayloadFile(data []byte, want string) (content []byte, link string, err error) {
	arR := ar.NewReader(bytes.NewReader(data))

	for {
		header, err := arR.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("reading package archive: %w", err)
		}

		member := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")
		if !strings.HasPrefix(member, string(PkgDataTar)) {
			continue
		}

		tr, closeFn, err := newTarReader(arR, member)
		if err != nil {
			return nil, "", err
		}
		defer closeFn()

		for {
			th, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, "", fmt.Errorf("reading %s: %w", member, err)
			}
			if cleanPath(th.Name) != want {
				continue
			}
			switch th.Typeflag {
			case tar.TypeReg:
				var buf bytes.Buffer
				if _, err := io.Copy(&buf, tr); err != nil {
					return nil, "", err
				}
				return buf.Bytes(), "", nil
			case tar.TypeSymlink:
				if path.IsAbs(th.Linkname) {
					return nil, path.Clean(th.Linkname), nil
				}
				return nil, path.Join(path.Dir(want), th.Linkname), nil
			case tar.TypeLink:
				return nil, cleanPath(th.Linkname), nil
			default:
				return nil, "", fmt.Errorf("%s is not a regular file", want)
			}
		}
		// There is only one data member.
		break
	}
	return nil, "", fmt.Errorf("%w: %s", ErrNotFound, want)
}

// newTarReader opens the data member according to its compression suffix.
func newTarReader(r io.Reader, member string) (*tar.Reader, func(), error) {
	noop := func() {}
	switch path.Ext(member) {
	case ".tar":
		return tar.NewReader(r), noop, nil
	case ".gz":
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", member, err)
		}
		return tar.NewReader(gzr), func() { gzr.Close() }, nil
	case ".xz":
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", member, err)
		}
		return tar.NewReader(xzr), noop, nil
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", member, err)
		}
		return tar.NewReader(dec), dec.Close, nil
	case ".bz2":
		return tar.NewReader(bzip2.NewReader(r)), noop, nil
	}
	return nil, nil, fmt.Errorf("unsupported payload member %s", member)
}

// cleanPath normalizes tar entry names ("./usr/share/x") and install paths
// ("/usr/share/x") to the same absolute form.
func cleanPath(name string) string {
	return path.Clean("/" + strings.TrimPrefix(name, "./"))
}
