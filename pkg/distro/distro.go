// Package distro identifies the Linux distribution of the host by probing
// well-known release files.
package distro

import (
	"strings"

	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/types"
)

// ID names a distribution family, e.g. "fedora" or "ubuntu"
type ID string

// Unknown is returned when no check matches
const Unknown ID = "unknown"

// Release files, in the order they are consulted
const (
	OSReleasePath     = "/etc/os-release"
	LSBReleasePath    = "/etc/lsb-release"
	DebianVersionPath = "/etc/debian_version"
	RedHatReleasePath = "/etc/redhat-release"
)

// Detector runs the ordered checks against a filesystem
type Detector struct {
	fs types.FS
}

// NewDetector creates a detector reading through fs
func NewDetector(fs types.FS) *Detector {
	return &Detector{fs: fs}
}

// Detect returns the first successful check:
//
//  1. ID= from /etc/os-release
//  2. DISTRIB_ID= (or DISTRIBUTOR_ID=) from /etc/lsb-release
//  3. "debian" if /etc/debian_version exists
//  4. "redhat" if /etc/redhat-release exists
//  5. Unknown
//
// Missing or unreadable files, and files without the key, fall through to
// the next check. Nothing is written.
func (d *Detector) Detect() ID {
	logger := logging.GetLogger("distro")

	if id, ok := d.readKey(OSReleasePath, "ID"); ok {
		logger.Debug().Str("source", OSReleasePath).Str("id", id).Msg("Distribution detected")
		return ID(id)
	}
	if id, ok := d.readKey(LSBReleasePath, "DISTRIB_ID", "DISTRIBUTOR_ID"); ok {
		// lsb-release uses display casing ("Ubuntu")
		id = strings.ToLower(id)
		logger.Debug().Str("source", LSBReleasePath).Str("id", id).Msg("Distribution detected")
		return ID(id)
	}
	if d.exists(DebianVersionPath) {
		return "debian"
	}
	if d.exists(RedHatReleasePath) {
		return "redhat"
	}

	logger.Debug().Msg("No release marker found")
	return Unknown
}

// readKey returns the unquoted value of the first line assigning one of keys
func (d *Detector) readKey(path string, keys ...string) (string, bool) {
	data, err := d.fs.ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		for _, key := range keys {
			value, found := strings.CutPrefix(line, key+"=")
			if !found {
				continue
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			if value == "" {
				return "", false
			}
			return value, true
		}
	}
	return "", false
}

func (d *Detector) exists(path string) bool {
	_, err := d.fs.Stat(path)
	return err == nil
}
