package lnwire

import "github.com/btcsuite/btcd/btcutil"

// MilliSatoshi represents a thousandth of a Satoshi, the unit the Lightning
// protocol uses internally so that sub-satoshi balance and fee bookkeeping
// doesn't round away dust.
type MilliSatoshi uint64

// NewMSatFromSatoshis creates a MilliSatoshi from a regular Satoshi amount.
func NewMSatFromSatoshis(amt btcutil.Amount) MilliSatoshi {
	return MilliSatoshi(amt * 1000)
}

// ToSatoshis rounds a MilliSatoshi amount down to the nearest whole Satoshi.
func (m MilliSatoshi) ToSatoshis() btcutil.Amount {
	return btcutil.Amount(m / 1000)
}
