// Package keyring turns the keyring files referenced by Signed-By options
// into ASCII-armored key blocks that can be embedded in deb822 entries.
//
// Keys are read and re-serialized, they are not verified.
package keyring

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"

	"github.com/etnz/apt-sources/deb"
)

// ReadKeyRing reads an OpenPGP keyring in either ASCII-armored (.asc) or
// binary (.gpg) form.
func ReadKeyRing(data []byte) (openpgp.EntityList, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN ")) {
		return openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	}
	return openpgp.ReadKeyRing(bytes.NewReader(data))
}

// Armor serializes the public part of the entities as a single
// ASCII-armored public key block.
func Armor(entities openpgp.EntityList) ([]byte, error) {
	if len(entities) == 0 {
		return nil, fmt.Errorf("no key found")
	}
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		if err := e.Serialize(w); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Resolver finds keyring files by their install path.
// It implements sources.KeyEmbedder.
type Resolver struct {
	// Root is the directory install paths are relative to. Empty means "/".
	Root string
	// Debs is a list of .deb files searched, in order, when a path is not
	// found under Root.
	Debs []string
}

// ArmoredKey reads the keyring installed at path and returns it as an
// ASCII-armored public key block.
func (r *Resolver) ArmoredKey(path string) ([]byte, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entities, err := ReadKeyRing(data)
	if err != nil {
		return nil, fmt.Errorf("reading keyring %s: %w", path, err)
	}
	return Armor(entities)
}

// maxKeyringSize bounds the size of a keyring file.
const maxKeyringSize = 1 << 20

// ErrInvalidPath is returned for keyring paths that are not clean absolute
// paths.
var ErrInvalidPath = errors.New("invalid keyring path")

// ReadFile returns the raw content of the file installed at p, looking
// under Root first and then in each of the Debs.
// p must be a clean absolute path, and only regular files of at most
// maxKeyringSize bytes are read.
func (r *Resolver) ReadFile(p string) ([]byte, error) {
	if !path.IsAbs(p) || path.Clean(p) != p || strings.Contains(p, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	root := r.Root
	if root == "" {
		root = "/"
	}
	data, err := readRegular(filepath.Join(root, filepath.FromSlash(p)))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	for _, d := range r.Debs {
		data, err := deb.ExtractFileFrom(d, p)
		if err == nil {
			if len(data) > maxKeyringSize {
				return nil, fmt.Errorf("keyring %s in %s: larger than %d bytes", p, d, maxKeyringSize)
			}
			return data, nil
		}
		if !errors.Is(err, deb.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("keyring %s: %w", p, fs.ErrNotExist)
}

// readRegular reads a regular file of at most maxKeyringSize bytes.
func readRegular(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("keyring %s: not a regular file", name)
	}
	data, err := io.ReadAll(io.LimitReader(f, maxKeyringSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxKeyringSize {
		return nil, fmt.Errorf("keyring %s: larger than %d bytes", name, maxKeyringSize)
	}
	return data, nil
}
