// pkg/platform/resolver.go
package platform

import (
	"fmt"

	"github.com/arc-language/buildenv/pkg/core"
)

// ResolveCompiler picks the compiler a compiler probe should run.
//
// Priority:
//  1. User-specified compiler in config
//  2. Platform preferred compiler
//
// An empty result with a nil error means the filesystem probe is in use.
func ResolveCompiler(platform *Platform, config *core.Config) (string, error) {
	if config.ProbeMode == core.ProbeFS {
		return "", nil
	}

	if config.Compiler != "" {
		if !commandExists(config.Compiler) && !contains(platform.Available, config.Compiler) {
			return "", fmt.Errorf("compiler '%s' is not available on this system", config.Compiler)
		}
		return config.Compiler, nil
	}

	if platform.Preferred == "" {
		return "", fmt.Errorf("no C compiler found (tried %v); set compiler in the config or use probe_mode: fs",
			candidateCompilers(platform.OS))
	}
	return platform.Preferred, nil
}
