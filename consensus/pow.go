package consensus

import (
	"bytes"
	"math/big"
)

// TargetFromBits decodes the compact "bits" encoding into a 256-bit
// big-endian target: mantissa * 256^(exponent-3), where exponent is
// the high byte of bits and mantissa is the low 23 bits. The high bit
// of the mantissa is forbidden (it would signal a negative target) and
// is rejected. The result is clamped to limit, the network's loosest
// permitted target.
func TargetFromBits(bits uint32, limit [32]byte) ([32]byte, error) {
	exponent := int(bits >> 24)
	mantissa := bits & 0x007FFFFF
	if bits&0x00800000 != 0 {
		var zero [32]byte
		return zero, newErr(ErrPowInvalid, "bits: negative mantissa sign bit set")
	}

	target := new(big.Int).SetUint64(uint64(mantissa))
	shift := (exponent - 3) * 8
	switch {
	case shift > 0:
		target.Lsh(target, uint(shift))
	case shift < 0:
		target.Rsh(target, uint(-shift))
	}

	limitInt := new(big.Int).SetBytes(limit[:])
	if target.Cmp(limitInt) > 0 {
		target = limitInt
	}

	return bigIntToTarget(target)
}

// CheckProofOfWork reports whether hash, interpreted as a big-endian
// 256-bit integer, is less than or equal to the target decoded from
// bits under limit.
func CheckProofOfWork(hash [32]byte, bits uint32, limit [32]byte) bool {
	target, err := TargetFromBits(bits, limit)
	if err != nil {
		return false
	}
	return bytes.Compare(hash[:], target[:]) <= 0
}

func bigIntToTarget(x *big.Int) ([32]byte, error) {
	var out [32]byte
	if x.Sign() < 0 {
		return out, newErr(ErrPowInvalid, "bits: target is negative")
	}
	b := x.Bytes()
	if len(b) > 32 {
		return out, newErr(ErrPowInvalid, "bits: target overflows 256 bits")
	}
	copy(out[32-len(b):], b)
	return out, nil
}
