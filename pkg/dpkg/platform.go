// pkg/dpkg/platform.go
package dpkg

// Architecture represents a Debian architecture
type Architecture string

const (
	// Common architectures
	ArchAmd64    Architecture = "amd64"   // x86_64
	ArchI386     Architecture = "i386"    // x86 32-bit
	ArchArm64    Architecture = "arm64"   // ARM 64-bit
	ArchArmhf    Architecture = "armhf"   // ARM hard float
	ArchPpc64el  Architecture = "ppc64el" // PowerPC 64-bit little endian
	ArchS390x    Architecture = "s390x"   // IBM S/390
	ArchMips64el Architecture = "mips64el"
	ArchRiscv64  Architecture = "riscv64"
	ArchAll      Architecture = "all" // Architecture-independent
)

// ArchitectureFor maps a GOARCH value to its Debian architecture. Unknown
// values map to "".
func ArchitectureFor(goarch string) Architecture {
	switch goarch {
	case "amd64":
		return ArchAmd64
	case "386":
		return ArchI386
	case "arm64":
		return ArchArm64
	case "arm":
		// Default to armhf for ARM 32-bit
		return ArchArmhf
	case "ppc64le":
		return ArchPpc64el
	case "s390x":
		return ArchS390x
	case "mips64le":
		return ArchMips64el
	case "riscv64":
		return ArchRiscv64
	default:
		return ""
	}
}

// String returns the string representation of the architecture
func (a Architecture) String() string {
	return string(a)
}

// matches reports whether a package built for arch can be used on a.
func (a Architecture) matches(arch string) bool {
	return a == "" || arch == "" || arch == string(ArchAll) || arch == string(a)
}
