// Package address parses BIP-44 style derivation paths and derives child keys
// for the three supported chain families.
package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
)

// HardenedOffset is added to an index to mark it hardened.
const HardenedOffset uint32 = 0x80000000

// Path is a parsed derivation path, one entry per level below the master key.
type Path []uint32

// ParsePath parses a path string into indices.
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParsePath(path string) (Path, error) {
	path = strings.TrimSpace(path)
	if len(path) == 0 || path[0] != 'm' {
		return nil, errors.Wrapf(core.ErrInvalidDerivationPath, "path %q must start with m", path)
	}

	rest := strings.TrimPrefix(path[1:], "/")
	if rest == "" {
		return Path{}, nil
	}

	parts := strings.Split(rest, "/")
	indices := make(Path, 0, len(parts))
	for _, part := range parts {
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
			hardened = true
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(index) >= HardenedOffset {
			return nil, errors.Wrapf(core.ErrInvalidDerivationPath, "invalid path segment %q", part)
		}

		if hardened {
			index += uint64(HardenedOffset)
		}
		indices = append(indices, uint32(index))
	}

	return indices, nil
}

// MustParsePath is ParsePath for compile-time constant paths.
func MustParsePath(path string) Path {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range p {
		b.WriteByte('/')
		if idx >= HardenedOffset {
			b.WriteString(strconv.FormatUint(uint64(idx-HardenedOffset), 10))
			b.WriteByte('\'')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return b.String()
}

// Hardened reports whether level i is hardened.
func (p Path) Hardened(i int) bool {
	return i < len(p) && p[i] >= HardenedOffset
}

// Purpose returns the unhardened purpose level, ok is false if absent.
func (p Path) Purpose() (uint32, bool) {
	return p.level(0)
}

// CoinType returns the unhardened coin type level, ok is false if absent.
func (p Path) CoinType() (uint32, bool) {
	return p.level(1)
}

func (p Path) level(i int) (uint32, bool) {
	if len(p) <= i || !p.Hardened(i) {
		return 0, false
	}
	return p[i] - HardenedOffset, true
}

// ValidateFor checks that the purpose and coin type segments of p match the
// constants registered for c, so that a key is never derived into another
// chain's key space.
func ValidateFor(p Path, c *chain.Chain) error {
	purpose, ok := p.Purpose()
	if !ok || purpose != c.Purpose {
		return errors.Wrapf(core.ErrInvalidDerivationPath, "path %s: purpose must be %d' for %s", p, c.Purpose, c.Name)
	}

	coin, ok := p.CoinType()
	if !ok || coin != c.CoinType {
		return errors.Wrapf(core.ErrInvalidDerivationPath, "path %s: coin type must be %d' for %s", p, c.CoinType, c.Name)
	}

	if c.Family == core.FamilyEd25519 {
		for i := range p {
			if !p.Hardened(i) {
				return errors.Wrapf(core.ErrInvalidDerivationPath, "path %s: ed25519 derivation supports hardened segments only", p)
			}
		}
	}

	return nil
}

// DefaultPath returns the account-zero path of a chain.
func DefaultPath(c *chain.Chain) Path {
	if c.Family == core.FamilyEd25519 {
		return MustParsePath(fmt.Sprintf("m/%d'/%d'/0'/0'", c.Purpose, c.CoinType))
	}
	return MustParsePath(fmt.Sprintf("m/%d'/%d'/0'/0/0", c.Purpose, c.CoinType))
}

// Resolve parses path, or returns the chain default when it is empty, and
// validates it for c.
func Resolve(path string, c *chain.Chain) (Path, error) {
	if path == "" {
		return DefaultPath(c), nil
	}

	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateFor(p, c); err != nil {
		return nil, err
	}
	return p, nil
}
