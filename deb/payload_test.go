package deb

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
)

// addBufferToAr writes a named byte slice as a file entry to the AR archive.
func addBufferToAr(t *testing.T, w *ar.Writer, name string, body []byte) {
	t.Helper()
	header := &ar.Header{
		Name:    name,
		Size:    int64(len(body)),
		Mode:    0644,
		ModTime: time.Now(),
	}
	if err := w.WriteHeader(header); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if _, err := w.Write(body); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
}

type tarEntry struct {
	name     string
	body     string
	typeflag byte
	linkname string
}

func buildTar(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     0644,
			Size:     int64(len(e.body)),
			Typeflag: e.typeflag,
			Linkname: e.linkname,
		}
		if e.typeflag != tar.TypeReg {
			hdr.Size = 0
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader %s: %v", e.name, err)
		}
		if e.typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatalf("Write %s: %v", e.name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// createMockDebBytes returns a minimal .deb with the given data member.
func createMockDebBytes(t *testing.T, dataMember string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	arW := ar.NewWriter(&buf)
	if err := arW.WriteGlobalHeader(); err != nil {
		t.Fatalf("WriteGlobalHeader failed: %v", err)
	}
	addBufferToAr(t, arW, string(PkgDebianBinary), []byte("2.0\n"))
	addBufferToAr(t, arW, string(PkgControlTar)+".gz", gzipBytes(t, buildTar(t, []tarEntry{
		{name: "./control", body: "Package: example-archive-keyring\n", typeflag: tar.TypeReg},
	})))
	addBufferToAr(t, arW, dataMember, data)
	return buf.Bytes()
}

func gzipBytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write(b)
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstdBytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write(b)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var keyringPayload = []tarEntry{
	{name: "./", typeflag: tar.TypeDir},
	{name: "./usr/share/keyrings/", typeflag: tar.TypeDir},
	{name: "./usr/share/keyrings/example-archive-keyring.gpg", body: "binary key", typeflag: tar.TypeReg},
	{name: "./etc/apt/trusted.gpg.d/example.gpg", typeflag: tar.TypeSymlink, linkname: "/usr/share/keyrings/example-archive-keyring.gpg"},
	{name: "./usr/share/keyrings/current.gpg", typeflag: tar.TypeSymlink, linkname: "example-archive-keyring.gpg"},
	{name: "./usr/share/keyrings/hard.gpg", typeflag: tar.TypeLink, linkname: "./usr/share/keyrings/example-archive-keyring.gpg"},
	{name: "./usr/share/keyrings/loop.gpg", typeflag: tar.TypeSymlink, linkname: "loop.gpg"},
}

func TestExtractFile(t *testing.T) {
	payload := buildTar(t, keyringPayload)
	debs := map[string][]byte{
		"gz":   createMockDebBytes(t, string(PkgDataTar)+".gz", gzipBytes(t, payload)),
		"zst":  createMockDebBytes(t, string(PkgDataTar)+".zst", zstdBytes(t, payload)),
		"none": createMockDebBytes(t, string(PkgDataTar), payload),
	}

	for compression, deb := range debs {
		for _, name := range []string{
			"/usr/share/keyrings/example-archive-keyring.gpg",
			"usr/share/keyrings/example-archive-keyring.gpg",
			"/etc/apt/trusted.gpg.d/example.gpg",
			"/usr/share/keyrings/current.gpg",
			"/usr/share/keyrings/hard.gpg",
		} {
			got, err := ExtractFile(deb, name)
			if err != nil {
				t.Errorf("%s: ExtractFile(%s) failed: %v", compression, name, err)
				continue
			}
			if string(got) != "binary key" {
				t.Errorf("%s: ExtractFile(%s): expected %q, got %q", compression, name, "binary key", got)
			}
		}
	}
}

func TestExtractFile_Errors(t *testing.T) {
	deb := createMockDebBytes(t, string(PkgDataTar)+".gz", gzipBytes(t, buildTar(t, keyringPayload)))

	if _, err := ExtractFile(deb, "/usr/share/keyrings/other.gpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := ExtractFile(deb, "/usr/share/keyrings"); err == nil {
		t.Error("expected error extracting a directory, got nil")
	}
	if _, err := ExtractFile(deb, "/usr/share/keyrings/loop.gpg"); err == nil {
		t.Error("expected error on link loop, got nil")
	}
	if _, err := ExtractFile([]byte("not a deb"), "/x"); err == nil {
		t.Error("expected error on invalid archive, got nil")
	}

	lzma := createMockDebBytes(t, string(PkgDataTar)+".lzma", []byte("whatever"))
	if _, err := ExtractFile(lzma, "/x"); err == nil {
		t.Error("expected error on unsupported compression, got nil")
	}
}

func TestExtractFileFrom(t *testing.T) {
	deb := createMockDebBytes(t, string(PkgDataTar)+".gz", gzipBytes(t, buildTar(t, keyringPayload)))
	path := filepath.Join(t.TempDir(), "example-archive-keyring_1.0_all.deb")
	if err := os.WriteFile(path, deb, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ExtractFileFrom(path, "/usr/share/keyrings/example-archive-keyring.gpg")
	if err != nil {
		t.Fatalf("ExtractFileFrom failed: %v", err)
	}
	if string(got) != "binary key" {
		t.Errorf("expected %q, got %q", "binary key", got)
	}

	if _, err := ExtractFileFrom(filepath.Join(t.TempDir(), "missing.deb"), "/x"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
