package deb

// PackageFile represents a standard member of the .deb archive (ar format).
// Control and data members carry a compression suffix (.gz, .xz, .zst, ...)
// and are matched by prefix.
type PackageFile string

const (
	PkgDebianBinary PackageFile = "debian-binary"
	PkgControlTar   PackageFile = "control.tar"
	PkgDataTar      PackageFile = "data.tar"
)
