// Package pkgmanager maps a distribution to its native package manager and
// renders that manager's update, listing and install commands.
package pkgmanager

import (
	"fmt"

	"github.com/arthur-debert/provision/pkg/distro"
	"github.com/arthur-debert/provision/pkg/errors"
)

// Kind is a family of native package managers sharing one command surface
type Kind int

const (
	// AptLike covers apt on Debian derivatives
	AptLike Kind = iota + 1
	// DnfLike covers dnf on Red Hat derivatives
	DnfLike
)

func (k Kind) String() string {
	switch k {
	case AptLike:
		return "apt"
	case DnfLike:
		return "dnf"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// kinds is the only place a distribution is tied to a manager.
// Anything missing here is unsupported; there is no fallback.
var kinds = map[distro.ID]Kind{
	"fedora": DnfLike,
	"rhel":   DnfLike,
	"centos": DnfLike,
	"debian": AptLike,
	"ubuntu": AptLike,
	"pop":    AptLike,
}

// Select returns the manager kind for id, or an UNSUPPORTED_DISTRO error
// naming it.
func Select(id distro.ID) (Kind, error) {
	if kind, ok := kinds[id]; ok {
		return kind, nil
	}
	return 0, errors.Newf(errors.ErrUnsupportedDistro, "Unsupported distribution: %s", id).
		WithDetail("distro", string(id))
}
