package lnwire

import "fmt"

// ChannelID is the unique identifier for a channel, shared by both peers for
// the lifetime of the channel. It is derived from the funding outpoint in
// the real protocol; the core treats it as an opaque value handed to it by
// the (excluded) opening handshake.
type ChannelID [32]byte

// String returns the hex encoding of the ChannelID.
func (c ChannelID) String() string {
	return fmt.Sprintf("%x", c[:])
}

// NewChanIDFromBytes builds a ChannelID from a 32-byte slice.
func NewChanIDFromBytes(b []byte) (ChannelID, error) {
	var c ChannelID
	if len(b) != len(c) {
		return c, fmt.Errorf("invalid channel ID length: %d", len(b))
	}
	copy(c[:], b)
	return c, nil
}
