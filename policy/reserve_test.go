package policy

import (
	"testing"

	"github.com/lnchannels/commitcore/lnwire"
	"github.com/stretchr/testify/require"
)

func TestReviewOpenChannelRejectsHighReserve(t *testing.T) {
	cfg := DefaultAcceptanceConfig()

	open := &lnwire.OpenChannel{
		ChanID:                 lnwire.ChannelID{1},
		FundingSatoshis:        10_000_000,
		ChannelReserveSatoshis: 3_000_000,
	}

	got := ReviewOpenChannel(cfg, open)
	require.NotNil(t, got)
	require.Equal(t,
		"requirement failed: channelReserveSatoshis too high: ratio=0.3 max=0.05",
		string(got.Data),
	)
}

func TestReviewOpenChannelAcceptsWithinPolicy(t *testing.T) {
	cfg := DefaultAcceptanceConfig()

	open := &lnwire.OpenChannel{
		ChanID:                 lnwire.ChannelID{1},
		FundingSatoshis:        10_000_000,
		ChannelReserveSatoshis: 100_000,
	}

	require.Nil(t, ReviewOpenChannel(cfg, open))
}

func TestReviewOpenChannelRejectsLowReserve(t *testing.T) {
	cfg := DefaultAcceptanceConfig()
	cfg.MinChannelReserveRatio = 0.01

	open := &lnwire.OpenChannel{
		ChanID:                 lnwire.ChannelID{1},
		FundingSatoshis:        10_000_000,
		ChannelReserveSatoshis: 1_000,
	}

	got := ReviewOpenChannel(cfg, open)
	require.NotNil(t, got)
	require.Contains(t, string(got.Data), "too low")
}
