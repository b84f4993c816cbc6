package lnchannel

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lnchannels/commitcore/input"
	"github.com/lnchannels/commitcore/keychain"
	"github.com/lnchannels/commitcore/lnwallet"
	"github.com/lnchannels/commitcore/lnwire"
	"github.com/lnchannels/commitcore/shachain"
)

// partyKeys holds one side's full set of private basepoints, enough to both
// build its public ChannelConfig and seed a mockSigner for it.
type partyKeys struct {
	multiSig  *btcec.PrivateKey
	revoke    *btcec.PrivateKey
	payment   *btcec.PrivateKey
	delay     *btcec.PrivateKey
	htlc      *btcec.PrivateKey
	commitSha [32]byte
}

func genPartyKeys(t *testing.T) partyKeys {
	t.Helper()

	gen := func() *btcec.PrivateKey {
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			t.Fatalf("generating key: %v", err)
		}
		return priv
	}

	var seed [32]byte
	seedPriv := gen()
	copy(seed[:], seedPriv.Serialize())

	return partyKeys{
		multiSig:  gen(),
		revoke:    gen(),
		payment:   gen(),
		delay:     gen(),
		htlc:      gen(),
		commitSha: seed,
	}
}

func keyDesc(priv *btcec.PrivateKey) keychain.KeyDescriptor {
	return keychain.KeyDescriptor{PubKey: priv.PubKey()}
}

func (k partyKeys) channelConfig(csvDelay uint16, constraints lnwallet.ChannelConstraints) lnwallet.ChannelConfig {
	return lnwallet.ChannelConfig{
		MultiSigKey:         keyDesc(k.multiSig),
		RevocationBasePoint: keyDesc(k.revoke),
		PaymentBasePoint:    keyDesc(k.payment),
		DelayBasePoint:      keyDesc(k.delay),
		HtlcBasePoint:       keyDesc(k.htlc),
		CsvDelay:            csvDelay,
		ChannelConstraints:  constraints,
	}
}

// testChannel bundles one side's Commitments together with the private
// keys needed to keep driving it (the counterparty's keys are never
// exposed, matching how a real node only ever signs with its own).
type testChannel struct {
	commitments Commitments
	keys        partyKeys
}

// newTestChannelPair builds a funded, freshly-opened channel with no
// pending changes and both initial commitment transactions built (not
// signed), from Alice's and
// Bob's perspective symmetrically. aliceIsFunder controls which side's
// initial balance equals fundingSat.
func newTestChannelPair(t *testing.T, fundingSat uint64, aliceIsFunder bool) (alice, bob testChannel) {
	t.Helper()

	aliceKeys := genPartyKeys(t)
	bobKeys := genPartyKeys(t)

	constraints := lnwallet.ChannelConstraints{
		DustLimit:        573,
		ChanReserve:      fundingSat / 100,
		MaxPendingAmount: lnwire.MilliSatoshi(fundingSat * 1000),
		MinHTLC:          1,
		MaxAcceptedHtlcs: 483,
	}

	const csvDelay = 144

	aliceConfig := aliceKeys.channelConfig(csvDelay, constraints)
	bobConfig := bobKeys.channelConfig(csvDelay, constraints)

	redeemScript, _, err := input.GenFundingPkScript(
		aliceConfig.MultiSigKey.PubKey.SerializeCompressed(),
		bobConfig.MultiSigKey.PubKey.SerializeCompressed(),
		int64(fundingSat),
	)
	if err != nil {
		t.Fatalf("building funding script: %v", err)
	}

	commitInput := lnwallet.CommitInput{
		FundingOutpoint: wire.OutPoint{Hash: chainhash.Hash{0x01}, Index: 0},
		RedeemScript:    redeemScript,
		Value:           fundingSat,
	}

	var aliceBalance, bobBalance lnwire.MilliSatoshi
	if aliceIsFunder {
		aliceBalance = lnwire.MilliSatoshi(fundingSat * 1000)
	} else {
		bobBalance = lnwire.MilliSatoshi(fundingSat * 1000)
	}

	aliceProducer := shachain.NewProducer(aliceKeys.commitSha)
	bobProducer := shachain.NewProducer(bobKeys.commitSha)

	alicePoint0 := input.ComputeCommitmentPoint(firstSecret(aliceProducer, 0))
	bobPoint0 := input.ComputeCommitmentPoint(firstSecret(bobProducer, 0))
	alicePoint1 := input.ComputeCommitmentPoint(firstSecret(aliceProducer, 1))
	bobPoint1 := input.ComputeCommitmentPoint(firstSecret(bobProducer, 1))

	chanID := lnwire.ChannelID{0xaa}

	specAlice := lnwallet.CommitmentSpec{ToLocalMsat: aliceBalance, ToRemoteMsat: bobBalance}
	specBob := lnwallet.CommitmentSpec{ToLocalMsat: bobBalance, ToRemoteMsat: aliceBalance}

	aliceLocalTxs, err := lnwallet.MakeLocalTxs(aliceConfig, bobConfig, commitInput, alicePoint0, specAlice)
	if err != nil {
		t.Fatalf("building alice local txs: %v", err)
	}
	aliceRemoteTxs, err := lnwallet.MakeRemoteTxs(bobConfig, aliceConfig, commitInput, bobPoint0, specAlice)
	if err != nil {
		t.Fatalf("building alice's view of bob's commitment: %v", err)
	}

	bobLocalTxs, err := lnwallet.MakeLocalTxs(bobConfig, aliceConfig, commitInput, bobPoint0, specBob)
	if err != nil {
		t.Fatalf("building bob local txs: %v", err)
	}
	bobRemoteTxs, err := lnwallet.MakeRemoteTxs(aliceConfig, bobConfig, commitInput, alicePoint0, specBob)
	if err != nil {
		t.Fatalf("building bob's view of alice's commitment: %v", err)
	}

	aliceCommitments := Commitments{
		ChannelID:    chanID,
		LocalParams:  aliceConfig,
		RemoteParams: bobConfig,
		CommitInput:  commitInput,
		LocalCommit: LocalCommit{
			Index:          0,
			Spec:           specAlice,
			PublishableTxs: aliceLocalTxs,
		},
		RemoteCommit: RemoteCommit{
			Index:                    0,
			Spec:                     specAlice,
			Txid:                     aliceRemoteTxs.CommitTx.Tx.TxHash(),
			RemotePerCommitmentPoint: bobPoint0,
		},
		RemoteNextCommitInfo:       Ready{NextPerCommitmentPoint: bobPoint1},
		RemotePerCommitmentSecrets: shachain.NewStore(),
		LocalCommitSecretProducer:  aliceProducer,
		Signer:                     newMockSigner(aliceKeys.multiSig, aliceKeys.htlc),
	}

	bobCommitments := Commitments{
		ChannelID:    chanID,
		LocalParams:  bobConfig,
		RemoteParams: aliceConfig,
		CommitInput:  commitInput,
		LocalCommit: LocalCommit{
			Index:          0,
			Spec:           specBob,
			PublishableTxs: bobLocalTxs,
		},
		RemoteCommit: RemoteCommit{
			Index:                    0,
			Spec:                     specBob,
			Txid:                     bobRemoteTxs.CommitTx.Tx.TxHash(),
			RemotePerCommitmentPoint: alicePoint0,
		},
		RemoteNextCommitInfo:       Ready{NextPerCommitmentPoint: alicePoint1},
		RemotePerCommitmentSecrets: shachain.NewStore(),
		LocalCommitSecretProducer:  bobProducer,
		Signer:                     newMockSigner(bobKeys.multiSig, bobKeys.htlc),
	}

	return testChannel{commitments: aliceCommitments, keys: aliceKeys},
		testChannel{commitments: bobCommitments, keys: bobKeys}
}

func firstSecret(p *shachain.Producer, index uint64) []byte {
	secret := p.At(index)
	out := make([]byte, 32)
	copy(out, secret[:])
	return out
}
