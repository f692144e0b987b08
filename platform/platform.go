// Package platform provides cross-platform utilities for directory paths,
// binary extensions, and OS-specific operations.
package platform

import (
	"os"
)

// AppName is the application name used for directory naming
const AppName = "parallax"

// AppDisplayName is the display name used on Windows
const AppDisplayName = "Parallax"

// WorkspaceName is the directory name used for per-run intermediate frames
const WorkspaceName = "parallax-work"

// GetDataDir returns the application data directory.
// Windows: %APPDATA%\Parallax
// Linux: ~/.local/share/parallax
// Falls back to ~/.parallax if XDG is not available.
func GetDataDir() string {
	return getDataDir()
}

// GetWorkDir returns the default workspace directory for intermediate frames.
// Windows: %ProgramData%\Parallax\parallax-work
// Linux: /tmp/parallax-work or XDG_RUNTIME_DIR/parallax-work
func GetWorkDir() string {
	return getWorkDir()
}

// GetCacheDir returns the cache directory for downloaded models.
// Windows: %APPDATA%\Parallax
// Linux: ~/.cache/parallax
func GetCacheDir() string {
	return getCacheDir()
}

// BinaryExtension returns the executable file extension for the current platform.
// Windows: ".exe"
// Linux: ""
func BinaryExtension() string {
	return binaryExtension()
}

// SharedLibExtension returns the shared library extension for the current platform.
// Windows: ".dll"
// Linux: ".so"
func SharedLibExtension() string {
	return sharedLibExtension()
}

// ExecutableName appends the platform binary extension to a base name.
func ExecutableName(base string) string {
	return base + binaryExtension()
}

// EnsureExecutable ensures a file has executable permissions.
// On Windows, this is a no-op.
// On Linux, this sets the executable bit.
func EnsureExecutable(path string) error {
	return ensureExecutable(path)
}

// UserHomeDir returns the user's home directory with proper fallbacks.
func UserHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
