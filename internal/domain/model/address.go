package model

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressHRP is the human readable part of Namada addresses.
const AddressHRP = "tnam"

const addressRawLen = 21

// AddressDiscriminant is the leading byte of a raw address.
type AddressDiscriminant byte

const (
	DiscriminantImplicit    AddressDiscriminant = 0
	DiscriminantEstablished AddressDiscriminant = 1
	DiscriminantPoS         AddressDiscriminant = 2
	DiscriminantSlashPool   AddressDiscriminant = 3
	DiscriminantParameters  AddressDiscriminant = 4
	DiscriminantGovernance  AddressDiscriminant = 5
	DiscriminantIbc         AddressDiscriminant = 6
	DiscriminantEthBridge   AddressDiscriminant = 7
	DiscriminantBridgePool  AddressDiscriminant = 8
	DiscriminantMultitoken  AddressDiscriminant = 9
	DiscriminantPgf         AddressDiscriminant = 10
	DiscriminantErc20       AddressDiscriminant = 11
	DiscriminantNut         AddressDiscriminant = 12
	DiscriminantIbcToken    AddressDiscriminant = 13
	DiscriminantMasp        AddressDiscriminant = 14
	DiscriminantTempStorage AddressDiscriminant = 15
	DiscriminantReplayProt  AddressDiscriminant = 16
)

var ErrInvalidAddress = errors.New("invalid address")

// Address is a decoded bech32m Namada address.
type Address struct {
	Discriminant AddressDiscriminant
	Hash         [20]byte
}

// IsInternal reports whether the address belongs to a protocol module rather
// than a user account.
func (a Address) IsInternal() bool {
	return a.Discriminant >= DiscriminantPoS
}

func (a Address) IsMasp() bool {
	return a.Discriminant == DiscriminantMasp
}

func (a Address) String() string {
	raw := make([]byte, 0, addressRawLen)
	raw = append(raw, byte(a.Discriminant))
	raw = append(raw, a.Hash[:]...)
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return ""
	}
	encoded, err := bech32.EncodeM(AddressHRP, conv)
	if err != nil {
		return ""
	}
	return encoded
}

// ParseAddress decodes a bech32m "tnam1..." address.
func ParseAddress(s string) (Address, error) {
	hrp, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != AddressHRP {
		return Address{}, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidAddress, hrp)
	}
	if version != bech32.VersionM {
		return Address{}, fmt.Errorf("%w: not bech32m", ErrInvalidAddress)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != addressRawLen {
		return Address{}, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(raw))
	}
	disc := AddressDiscriminant(raw[0])
	if disc > DiscriminantReplayProt {
		return Address{}, fmt.Errorf("%w: discriminant %d", ErrInvalidAddress, disc)
	}
	var addr Address
	addr.Discriminant = disc
	copy(addr.Hash[:], raw[1:])
	return addr, nil
}

// IsInternalAddress reports whether s parses as a protocol-internal address.
func IsInternalAddress(s string) bool {
	addr, err := ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.IsInternal()
}

// IsMaspAddress reports whether s parses as the shielded pool address.
func IsMaspAddress(s string) bool {
	addr, err := ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.IsMasp()
}
