package lnchannel

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lnchannels/commitcore/input"
	"github.com/lnchannels/commitcore/lnwire"
)

func preimageAndHash(seed byte) ([32]byte, [32]byte) {
	var preimage [32]byte
	preimage[0] = seed
	return preimage, sha256.Sum256(preimage[:])
}

// TestHappyPathAddSignRevoke drives a full add, sign, revoke round trip
// between two freshly opened, symmetric channel ends and checks every hop
// against the exact values the two sides should agree on.
func TestHappyPathAddSignRevoke(t *testing.T) {
	alice, bob := newTestChannelPair(t, 10_000_000, true)

	_, paymentHash := preimageAndHash(0x01)
	var onionBlob [1366]byte

	aliceAfterAdd, addMsg, err := alice.commitments.SendAdd(1_000_000_000, paymentHash, 500, onionBlob)
	if err != nil {
		t.Fatalf("alice sendAdd: %v", err)
	}
	if addMsg.ID != 1 {
		t.Fatalf("first htlc id = %d, want 1", addMsg.ID)
	}

	bobAfterAdd, err := bob.commitments.ReceiveAdd(addMsg)
	if err != nil {
		t.Fatalf("bob receiveAdd: %v", err)
	}

	aliceAfterCommit, commitSig, err := aliceAfterAdd.SendCommit()
	if err != nil {
		t.Fatalf("alice sendCommit: %v", err)
	}
	if len(commitSig.HtlcSigs) != 1 {
		t.Fatalf("htlc sig count = %d, want 1", len(commitSig.HtlcSigs))
	}

	bobAfterCommit, revokeMsg, err := bobAfterAdd.ReceiveCommit(commitSig)
	if err != nil {
		t.Fatalf("bob receiveCommit: %v", err)
	}

	wantRevocation := bobAfterAdd.LocalCommitSecretProducer.At(0)
	if revokeMsg.Revocation != wantRevocation {
		t.Fatalf("revocation secret mismatch")
	}

	nextSecret := bobAfterAdd.LocalCommitSecretProducer.At(2)
	wantNextPoint := input.ComputeCommitmentPoint(nextSecret[:])
	gotNextPoint, err := btcec.ParsePubKey(revokeMsg.NextRevocationKey[:])
	if err != nil {
		t.Fatalf("parsing NextRevocationKey: %v", err)
	}
	if !gotNextPoint.IsEqual(wantNextPoint) {
		t.Fatalf("next revocation point mismatch")
	}

	aliceFinal, err := aliceAfterCommit.ReceiveRevocation(revokeMsg)
	if err != nil {
		t.Fatalf("alice receiveRevocation: %v", err)
	}
	if aliceFinal.RemoteCommit.Index != 1 {
		t.Fatalf("alice's view of bob's commit index = %d, want 1", aliceFinal.RemoteCommit.Index)
	}
	if bobAfterCommit.LocalCommit.Index != 1 {
		t.Fatalf("bob's own commit index = %d, want 1", bobAfterCommit.LocalCommit.Index)
	}
}

// TestSendAddInsufficientFunds reproduces a fresh channel whose funder has
// only 100_000 msat to offer, and checks that offering more than that is
// rejected without mutating state.
func TestSendAddInsufficientFunds(t *testing.T) {
	alice, _ := newTestChannelPair(t, 100, true)

	_, paymentHash := preimageAndHash(0x02)
	var onionBlob [1366]byte

	before := alice.commitments

	_, _, err := alice.commitments.SendAdd(200_000, paymentHash, 500, onionBlob)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if alice.commitments.LocalCurrentHtlcId != before.LocalCurrentHtlcId {
		t.Fatalf("commitments mutated on a rejected add")
	}
}

// TestSendFulfillInvalidPreimage checks that a preimage not matching the
// HTLC's payment hash is rejected and leaves the channel state untouched.
func TestSendFulfillInvalidPreimage(t *testing.T) {
	alice, bob := newTestChannelPair(t, 10_000_000, true)

	preimage, paymentHash := preimageAndHash(0x03)
	var onionBlob [1366]byte

	_, addMsg, err := alice.commitments.SendAdd(1_000_000, paymentHash, 500, onionBlob)
	if err != nil {
		t.Fatalf("alice sendAdd: %v", err)
	}
	bobAfterAdd, err := bob.commitments.ReceiveAdd(addMsg)
	if err != nil {
		t.Fatalf("bob receiveAdd: %v", err)
	}

	wrongPreimage := preimage
	wrongPreimage[31] ^= 0xff

	before := bobAfterAdd

	_, _, err = bobAfterAdd.SendFulfill(addMsg.ID, wrongPreimage)
	if !errors.Is(err, ErrInvalidPreimage) {
		t.Fatalf("err = %v, want ErrInvalidPreimage", err)
	}
	if len(bobAfterAdd.LocalChanges.Proposed) != len(before.LocalChanges.Proposed) {
		t.Fatalf("commitments mutated on a rejected fulfill")
	}
}

// TestSendCommitNoChanges checks that signing immediately after a channel
// opens, with nothing proposed or acked, is rejected.
func TestSendCommitNoChanges(t *testing.T) {
	alice, _ := newTestChannelPair(t, 10_000_000, true)

	_, _, err := alice.commitments.SendCommit()
	if !errors.Is(err, ErrCannotSignNoChanges) {
		t.Fatalf("err = %v, want ErrCannotSignNoChanges", err)
	}
}

// TestReceiveRevocationUnexpected checks that a revocation arriving while
// no commitment is outstanding and awaiting one is rejected.
func TestReceiveRevocationUnexpected(t *testing.T) {
	alice, _ := newTestChannelPair(t, 10_000_000, true)

	_, err := alice.commitments.ReceiveRevocation(&lnwire.RevokeAndAck{ChanID: alice.commitments.ChannelID})
	if !errors.Is(err, ErrUnexpectedRevocation) {
		t.Fatalf("err = %v, want ErrUnexpectedRevocation", err)
	}
}
