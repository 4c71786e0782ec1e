package crypto

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the bech32 human-readable part used for launchpad addresses.
const AddressPrefix = "lpd"

// AddressLength is the raw byte length of an address.
const AddressLength = 20

var (
	// ErrInvalidAddress is returned when a string does not decode to a
	// well-formed launchpad address.
	ErrInvalidAddress = errors.New("crypto: invalid address")
)

// Address represents a 20-byte account identity.
type Address [AddressLength]byte

// ZeroAddress is the sentinel "none" address.
var ZeroAddress Address

// IsZero reports whether the address is the zero sentinel.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// String renders the address in bech32 with the launchpad prefix.
func (a Address) String() string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(AddressPrefix, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	decoded, err := DecodeAddress(string(text))
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// AddressFromBytes converts raw bytes into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(b))
	}
	var out Address
	copy(out[:], b)
	return out, nil
}

// DecodeAddress parses a bech32-encoded launchpad address.
func DecodeAddress(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != AddressPrefix {
		return Address{}, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidAddress, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return AddressFromBytes(raw)
}

// MustDecodeAddress parses a bech32 address and panics on failure. Intended
// for static configuration and tests.
func MustDecodeAddress(s string) Address {
	addr, err := DecodeAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// ModuleAddress derives a deterministic address for a module-owned account
// (e.g. the sale vault) from a domain tag.
func ModuleAddress(tag string) Address {
	hash := ethcrypto.Keccak256([]byte("launchpad/module/" + tag))
	var out Address
	copy(out[:], hash[len(hash)-AddressLength:])
	return out
}
