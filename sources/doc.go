// Package sources converts APT source-list entries from the one-line syntax
// into the deb822 syntax.
//
// # One-line entries
//
// A one-line entry has the shape
//
//	deb [arch=amd64 signed-by=/usr/share/keyrings/example.gpg] https://example.com/debian stable main contrib
//
// that is a type (deb or deb-src), an optional bracketed list of key=value
// options, a URI, a suite and the remaining components. The components are
// kept verbatim as a single value.
//
// # deb822 entries
//
// Each parsed entry is rendered as a block of fields, always starting with
// Types, URIs, Suites and Components, followed by one field per option in
// the order the options were written. Option keys are mapped to their
// deb822 field names (arch becomes Architectures, signed-by becomes
// Signed-By, ...). Unknown keys keep their spelling with the first letter
// upper-cased.
//
// # Failure policy
//
// Conversion never fails. Comment lines are normalized, and lines that are
// not valid entries are replaced by a comment carrying the original text.
// Malformed options are dropped.
package sources
