package policy

import (
	"fmt"

	"github.com/lnchannels/commitcore/lnwire"
)

// ReviewOpenChannel checks an incoming OpenChannel proposal against cfg,
// returning the wire Error to send back (and the channel being refused) if
// it falls outside policy. A nil return means the proposal is acceptable.
func ReviewOpenChannel(cfg *AcceptanceConfig, open *lnwire.OpenChannel) *lnwire.Error {
	ratio := float64(open.ChannelReserveSatoshis) / float64(open.FundingSatoshis)

	if ratio > cfg.MaxChannelReserveRatio {
		return &lnwire.Error{
			ChanID: open.ChanID,
			Data: []byte(fmt.Sprintf(
				"requirement failed: channelReserveSatoshis too high: ratio=%v max=%v",
				ratio, cfg.MaxChannelReserveRatio,
			)),
		}
	}

	if ratio < cfg.MinChannelReserveRatio {
		return &lnwire.Error{
			ChanID: open.ChanID,
			Data: []byte(fmt.Sprintf(
				"requirement failed: channelReserveSatoshis too low: ratio=%v min=%v",
				ratio, cfg.MinChannelReserveRatio,
			)),
		}
	}

	return nil
}
