package distro

import (
	"os"
	"strings"

	"provisioner/internal/logger"
)

// Distribution identifies the Linux distribution of the host.
type Distribution string

const (
	Ubuntu    Distribution = "ubuntu"
	ArchLinux Distribution = "archlinux"
	Unknown   Distribution = "unknown"
)

// Marker files consulted during identification.
const (
	archReleaseFile = "/etc/arch-release"
	lsbReleaseFile  = "/etc/lsb-release"
	ubuntuMarker    = "DISTRIB_ID=Ubuntu"
)

// Identify determines the host's Linux distribution. The answer is computed
// fresh on every call; nothing is cached.
//
// Strategy: Arch installs ship an /etc/arch-release marker file, so its
// presence wins outright. Otherwise /etc/lsb-release is inspected for the
// Ubuntu DISTRIB_ID line. Anything else is Unknown.
func Identify() Distribution {
	if fileExists(archReleaseFile) {
		return ArchLinux
	}
	if fileExists(lsbReleaseFile) {
		content, err := os.ReadFile(lsbReleaseFile)
		if err != nil {
			logger.Debug("[DEBUG] Failed to read %s: %v\n", lsbReleaseFile, err)
			return Unknown
		}
		if strings.Contains(string(content), ubuntuMarker) {
			return Ubuntu
		}
	}
	return Unknown
}

// ShouldSkip reports whether a unit carrying the given distribution
// restriction must be skipped on this host. An empty restriction applies
// everywhere. Unknown hosts never match a named restriction, so restricted
// units always skip on unidentified distributions; that conservatism is
// deliberate.
func ShouldSkip(restriction Distribution) bool {
	if restriction == "" {
		return false
	}
	host := Identify()
	if host == Unknown {
		return true
	}
	return restriction != host
}

// Parse normalizes a distribution name from configuration. Unrecognized
// names map to Unknown, which can never match a host and therefore skips.
func Parse(name string) Distribution {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return ""
	case "ubuntu":
		return Ubuntu
	case "archlinux", "arch", "arch linux":
		return ArchLinux
	default:
		return Unknown
	}
}

// String returns the display name of the distribution.
func (d Distribution) String() string {
	switch d {
	case Ubuntu:
		return "Ubuntu"
	case ArchLinux:
		return "Arch Linux"
	default:
		return "Unknown"
	}
}

// fileExists checks whether a file exists at the given path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
