package lnwallet

import (
	"errors"
	"testing"

	"github.com/lnchannels/commitcore/lnwire"
)

func testAdd(id uint64, amount lnwire.MilliSatoshi) *lnwire.UpdateAddHtlc {
	return &lnwire.UpdateAddHtlc{ID: id, Amount: amount}
}

func TestReduceDeductsAddFromOfferer(t *testing.T) {
	base := CommitmentSpec{ToLocalMsat: 1_000_000, ToRemoteMsat: 1_000_000}

	local := []lnwire.Message{NewAddEntry(testAdd(1, 100_000), Out)}
	remote := []lnwire.Message{NewAddEntry(testAdd(1, 50_000), In)}

	got, err := Reduce(base, local, remote)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	if got.ToLocalMsat != 900_000 {
		t.Fatalf("ToLocalMsat = %d, want 900_000", got.ToLocalMsat)
	}
	if got.ToRemoteMsat != 950_000 {
		t.Fatalf("ToRemoteMsat = %d, want 950_000", got.ToRemoteMsat)
	}
	if len(got.Htlcs) != 2 {
		t.Fatalf("len(Htlcs) = %d, want 2", len(got.Htlcs))
	}
}

func TestReduceFulfillCreditsPayeePermanently(t *testing.T) {
	base := CommitmentSpec{ToLocalMsat: 1_000_000, ToRemoteMsat: 1_000_000}

	// Remote offers an HTLC (In), deducting from its own balance; local
	// then fulfills it, crediting the amount permanently to the local
	// party that received and redeemed it.
	afterAdd, err := Reduce(base, nil, []lnwire.Message{NewAddEntry(testAdd(1, 200_000), In)})
	if err != nil {
		t.Fatalf("Reduce (add): %v", err)
	}
	if afterAdd.ToRemoteMsat != 800_000 {
		t.Fatalf("ToRemoteMsat after add = %d, want 800_000", afterAdd.ToRemoteMsat)
	}

	fulfill := &lnwire.UpdateFulfillHtlc{ID: 1}
	afterFulfill, err := Reduce(afterAdd, []lnwire.Message{fulfill}, nil)
	if err != nil {
		t.Fatalf("Reduce (fulfill): %v", err)
	}

	if afterFulfill.ToLocalMsat != 1_200_000 {
		t.Fatalf("ToLocalMsat after fulfill = %d, want 1_200_000", afterFulfill.ToLocalMsat)
	}
	if afterFulfill.ToRemoteMsat != 800_000 {
		t.Fatalf("ToRemoteMsat after fulfill = %d, want 800_000 (unchanged)", afterFulfill.ToRemoteMsat)
	}
	if len(afterFulfill.Htlcs) != 0 {
		t.Fatalf("len(Htlcs) = %d, want 0", len(afterFulfill.Htlcs))
	}

	total := afterFulfill.ToLocalMsat + afterFulfill.ToRemoteMsat
	if total != base.ToLocalMsat+base.ToRemoteMsat {
		t.Fatalf("total msat = %d, want %d (conservation)", total, base.ToLocalMsat+base.ToRemoteMsat)
	}
}

func TestReduceFailRefundsPayer(t *testing.T) {
	base := CommitmentSpec{ToLocalMsat: 1_000_000, ToRemoteMsat: 1_000_000}

	afterAdd, err := Reduce(base, []lnwire.Message{NewAddEntry(testAdd(1, 300_000), Out)}, nil)
	if err != nil {
		t.Fatalf("Reduce (add): %v", err)
	}
	if afterAdd.ToLocalMsat != 700_000 {
		t.Fatalf("ToLocalMsat after add = %d, want 700_000", afterAdd.ToLocalMsat)
	}

	fail := &lnwire.UpdateFailHtlc{ID: 1}
	afterFail, err := Reduce(afterAdd, nil, []lnwire.Message{fail})
	if err != nil {
		t.Fatalf("Reduce (fail): %v", err)
	}

	if afterFail.ToLocalMsat != 1_000_000 {
		t.Fatalf("ToLocalMsat after fail = %d, want 1_000_000 (refunded)", afterFail.ToLocalMsat)
	}
	if len(afterFail.Htlcs) != 0 {
		t.Fatalf("len(Htlcs) = %d, want 0", len(afterFail.Htlcs))
	}
}

func TestReduceUnknownHtlcFails(t *testing.T) {
	base := CommitmentSpec{ToLocalMsat: 1_000_000, ToRemoteMsat: 1_000_000}

	_, err := Reduce(base, []lnwire.Message{&lnwire.UpdateFulfillHtlc{ID: 99}}, nil)
	if !errors.Is(err, ErrUnknownHtlc) {
		t.Fatalf("err = %v, want ErrUnknownHtlc", err)
	}
}

func TestReduceIsStatelessOverBase(t *testing.T) {
	base := CommitmentSpec{ToLocalMsat: 500_000, ToRemoteMsat: 500_000,
		Htlcs: []Htlc{{Direction: Out, UpdateAddHtlc: testAdd(1, 10_000)}}}

	if _, err := Reduce(base, nil, nil); err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if base.ToLocalMsat != 500_000 || len(base.Htlcs) != 1 {
		t.Fatalf("Reduce mutated its base argument")
	}
}
