// Package deb reads files out of Debian binary packages.
//
// A .deb is an ar archive holding a debian-binary member, a control tarball
// and a data tarball. The data tarball is the payload installed on the
// target system and may be uncompressed or compressed with gzip, xz, zstd
// or bzip2.
//
// The package works in memory and needs no external tool like 'dpkg-deb'.
// It is used to pick keyrings out of *-archive-keyring packages that are
// not installed on the machine doing the conversion.
package deb
