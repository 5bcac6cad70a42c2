// pkg/env/types.go
package env

// Layout defines where files are located below an install root
type Layout struct {
	Libraries []string // Relative paths to library directories
	Includes  []string // Relative paths to include directories
	PkgConfig []string // Relative paths to pkg-config directories
}

// Library represents a found library file
type Library struct {
	Name     string // Library name (e.g., "ssl")
	Dir      string // Directory containing the file
	Path     string // Absolute path to library file
	Type     string // Extension: ".so", ".a", ".dylib", ".dll", ".lib"
	IsStatic bool   // True for .a files
}

// CompilerFlags holds compiler and linker flags rendered from a Record
type CompilerFlags struct {
	IncludeFlags   []string // -I flags
	DefineFlags    []string // -D flags
	CFlags         []string // extra compiler flags
	LibraryFlags   []string // -L flags
	LinkFlags      []string // -l flags
	FrameworkFlags []string // -framework flags (darwin)
	LDFlags        []string // extra linker flags
}

// Compile returns the flags needed at compile time.
func (f CompilerFlags) Compile() []string {
	out := make([]string, 0, len(f.IncludeFlags)+len(f.DefineFlags)+len(f.CFlags))
	out = append(out, f.IncludeFlags...)
	out = append(out, f.DefineFlags...)
	return append(out, f.CFlags...)
}

// Link returns the flags needed at link time.
func (f CompilerFlags) Link() []string {
	out := make([]string, 0, len(f.LibraryFlags)+len(f.LinkFlags)+len(f.FrameworkFlags)+len(f.LDFlags))
	out = append(out, f.LibraryFlags...)
	out = append(out, f.LinkFlags...)
	out = append(out, f.FrameworkFlags...)
	return append(out, f.LDFlags...)
}

// All returns compile flags followed by link flags.
func (f CompilerFlags) All() []string {
	return append(f.Compile(), f.Link()...)
}
