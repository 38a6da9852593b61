package wallet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet path
type DerivationPath []uint32

var (
	// DefaultIntermediateDerivationPath m/12381/8444/2 is the unhardened path
	// applied to a root public key to obtain the base key of all the child
	// addresses.
	DefaultIntermediateDerivationPath = DerivationPath{12381, 8444, 2}
)

// ParseDerivationPath parses paths like m/12381/8444/2. The leading m is
// optional, elements may be decimal or 0x prefixed and a trailing ' marks a
// hardened element.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	if strPath == "" {
		return nil, ErrNullDerivationPath
	}

	elems := strings.Split(strPath, "/")
	if len(elems) < 2 {
		return nil, ErrMalformedDerivationPath
	}
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
	}

	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		index, err := parsePathIndex(strings.TrimSpace(elem))
		if err != nil {
			return nil, err
		}
		path = append(path, index)
	}
	return path, nil
}

func parsePathIndex(elem string) (uint32, error) {
	if elem == "" {
		return 0, ErrMalformedDerivationPath
	}

	var offset uint32
	if unhardened := strings.TrimSuffix(elem, "'"); unhardened != elem {
		offset = hdkeychain.HardenedKeyStart
		elem = strings.TrimSpace(unhardened)
	}

	value, err := strconv.ParseUint(elem, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid path index '%s'", elem)
	}
	if max := uint64(math.MaxUint32 - offset); value > max {
		return 0, fmt.Errorf("path index %d out of range [0, %d]", value, max)
	}
	return offset + uint32(value), nil
}

// String returns the path in the m/a/b'/c notation.
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("m")
	for _, index := range path {
		if index >= hdkeychain.HardenedKeyStart {
			fmt.Fprintf(&b, "/%d'", index-hdkeychain.HardenedKeyStart)
			continue
		}
		fmt.Fprintf(&b, "/%d", index)
	}
	return b.String()
}

// IsUnhardened returns whether every element of the path can be derived from
// a public key.
func (path DerivationPath) IsUnhardened() bool {
	for _, component := range path {
		if component >= hdkeychain.HardenedKeyStart {
			return false
		}
	}
	return true
}
