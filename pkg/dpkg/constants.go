// pkg/dpkg/constants.go
package dpkg

const (
	// DefaultDir is the dpkg administrative directory
	DefaultDir = "/var/lib/dpkg"

	// statusInstalled is the Status value of a fully installed package
	statusInstalled = "install ok installed"
)
