package lnwallet

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lnchannels/commitcore/input"
)

// CommitmentKeyRing holds every key derived for one specific commitment
// transaction: tweaked by that commitment's per-commitment point, ready to
// build scripts and sign descriptors from.
type CommitmentKeyRing struct {
	// ToLocalKey is the owner's delay basepoint tweaked by this
	// commitment's per-commitment point - the key guarding the owner's
	// to_local output once its CSV delay has passed.
	ToLocalKey *btcec.PublicKey

	// ToRemoteKey is the key guarding the counterparty's to_remote
	// output on this commitment.
	ToRemoteKey *btcec.PublicKey

	// RevocationKey is the key that can claim the owner's to_local and
	// offered/received HTLC outputs if this commitment is ever revoked
	// and republished.
	RevocationKey *btcec.PublicKey

	// LocalHtlcKey and RemoteHtlcKey are the tweaked HTLC basepoints for
	// the owner and counterparty respectively, used in HTLC scripts on
	// this commitment.
	LocalHtlcKey  *btcec.PublicKey
	RemoteHtlcKey *btcec.PublicKey
}

// DeriveCommitmentKeyRing computes the key ring for a commitment owned by
// self, built from self's and the counterparty's channel configs and the
// per-commitment point in use for this specific commitment.
func DeriveCommitmentKeyRing(self, remote ChannelConfig, perCommitPoint *btcec.PublicKey) CommitmentKeyRing {
	return CommitmentKeyRing{
		ToLocalKey:    input.TweakPubKey(self.DelayBasePoint.PubKey, perCommitPoint),
		ToRemoteKey:   input.TweakPubKey(remote.PaymentBasePoint.PubKey, perCommitPoint),
		RevocationKey: input.DeriveRevocationPubkey(remote.RevocationBasePoint.PubKey, perCommitPoint),
		LocalHtlcKey:  input.TweakPubKey(self.HtlcBasePoint.PubKey, perCommitPoint),
		RemoteHtlcKey: input.TweakPubKey(remote.HtlcBasePoint.PubKey, perCommitPoint),
	}
}

// HtlcOutput is one non-dust HTLC output placed on a commitment
// transaction, together with the information needed to later build its
// second-level HTLC-timeout/HTLC-success transaction.
type HtlcOutput struct {
	Htlc          Htlc
	OutputIndex   int
	WitnessScript []byte
}

// CommitmentTxn is a fully-built, not-yet-signed commitment transaction
// along with everything needed to sign it and its second-level HTLC
// transactions.
type CommitmentTxn struct {
	Tx            *wire.MsgTx
	ToLocalIndex  int
	ToRemoteIndex int
	Htlcs         []HtlcOutput
	KeyRing       CommitmentKeyRing
}

// isDust reports whether a millisatoshi amount would produce an output
// worth less than limit satoshis.
func isDust(amtMsat uint64, limitSat uint64) bool {
	return amtMsat/1000 < limitSat
}

type namedOut struct {
	out    *wire.TxOut
	kind   string
	htlc   *Htlc
	script []byte
}

// MakeCommitTx builds the unsigned commitment transaction for one side of
// the channel, placing to_local, to_remote, and every non-dust HTLC output
// in BOLT3's canonical order: ascending by output value, with ties broken
// by pkScript bytes.
func MakeCommitTx(fundingInput CommitInput, keyRing CommitmentKeyRing,
	csvDelay uint16, spec CommitmentSpec, dustLimit uint64, ownerIsLocal bool) (*CommitmentTxn, error) {

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: fundingInput.FundingOutpoint,
		Sequence:         0xfffffffd,
	})

	// spec's balances are always local/remote; the owner's to_local output
	// carries the remote party's balance when the owner is the remote side.
	ownerMsat, otherMsat := spec.ToLocalMsat, spec.ToRemoteMsat
	if !ownerIsLocal {
		ownerMsat, otherMsat = otherMsat, ownerMsat
	}

	var outs []namedOut

	if !isDust(uint64(ownerMsat), dustLimit) {
		script, err := input.CommitScriptToSelf(uint32(csvDelay), keyRing.ToLocalKey, keyRing.RevocationKey)
		if err != nil {
			return nil, err
		}
		pkScript, err := toWitnessProgram(script)
		if err != nil {
			return nil, err
		}
		outs = append(outs, namedOut{
			out:  wire.NewTxOut(int64(ownerMsat.ToSatoshis()), pkScript),
			kind: "to_local",
		})
	}

	if !isDust(uint64(otherMsat), dustLimit) {
		script, err := input.CommitScriptUnencumbered(keyRing.ToRemoteKey)
		if err != nil {
			return nil, err
		}
		outs = append(outs, namedOut{
			out:  wire.NewTxOut(int64(otherMsat.ToSatoshis()), script),
			kind: "to_remote",
		})
	}

	for i := range spec.Htlcs {
		htlc := spec.Htlcs[i]
		if isDust(uint64(htlc.Amount), dustLimit) {
			continue
		}

		offeredByOwner := (htlc.Direction == Out) == ownerIsLocal

		var script []byte
		var err error
		if offeredByOwner {
			script, err = input.HtlcOfferedScript(
				keyRing.LocalHtlcKey, keyRing.RemoteHtlcKey,
				keyRing.RevocationKey, htlc.PaymentHash, htlc.Expiry,
			)
		} else {
			script, err = input.HtlcReceivedScript(
				keyRing.RemoteHtlcKey, keyRing.LocalHtlcKey,
				keyRing.RevocationKey, htlc.PaymentHash, htlc.Expiry,
			)
		}
		if err != nil {
			return nil, err
		}

		pkScript, err := toWitnessProgram(script)
		if err != nil {
			return nil, err
		}

		outs = append(outs, namedOut{
			out:    wire.NewTxOut(int64(htlc.Amount.ToSatoshis()), pkScript),
			kind:   "htlc",
			htlc:   &spec.Htlcs[i],
			script: script,
		})
	}

	sort.SliceStable(outs, func(i, j int) bool {
		if outs[i].out.Value != outs[j].out.Value {
			return outs[i].out.Value < outs[j].out.Value
		}
		return compareBytes(outs[i].out.PkScript, outs[j].out.PkScript) < 0
	})

	result := &CommitmentTxn{
		Tx:            tx,
		ToLocalIndex:  -1,
		ToRemoteIndex: -1,
		KeyRing:       keyRing,
	}

	for i, o := range outs {
		tx.AddTxOut(o.out)
		switch o.kind {
		case "to_local":
			result.ToLocalIndex = i
		case "to_remote":
			result.ToRemoteIndex = i
		case "htlc":
			result.Htlcs = append(result.Htlcs, HtlcOutput{
				Htlc:          *o.htlc,
				OutputIndex:   i,
				WitnessScript: o.script,
			})
		}
	}

	return result, nil
}

func toWitnessProgram(script []byte) ([]byte, error) {
	bldr := txscript.NewScriptBuilder()
	bldr.AddOp(txscript.OP_0)
	sum := sha256.Sum256(script)
	bldr.AddData(sum[:])
	return bldr.Script()
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

// Sign produces a raw signature over commitTx's sole input using signer and
// the given sign descriptor.
func Sign(commitTx *wire.MsgTx, signDesc *input.SignDescriptor, signer input.Signer) ([]byte, error) {
	sig, err := signer.SignOutputRaw(commitTx, signDesc)
	if err != nil {
		return nil, fmt.Errorf("lnwallet: unable to sign commitment: %w", err)
	}
	return sig, nil
}
