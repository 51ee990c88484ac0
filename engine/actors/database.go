package actors

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveResource maps a resource path the way a page resolves a src attribute: a leading "/" is
// relative to the engine root directory, anything else is relative to the working directory.
func ResolveResource(path string) string {
	if strings.HasPrefix(path, "/") {
		return filepath.Join(MakeOrGetConfig().GetString("rootDir"), path)
	}
	return filepath.Clean(path)
}

// OpenResource reads a resource such as the wallet plugin manifest.
func OpenResource(path string) ([]byte, error) {
	return os.ReadFile(ResolveResource(path))
}
