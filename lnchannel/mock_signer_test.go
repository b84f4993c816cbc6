package lnchannel

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lnchannels/commitcore/input"
)

// mockSigner is a Signer backed by a fixed set of private keys, looked up
// by the (possibly tweaked) public key a SignDescriptor names - the same
// approach the wallet's own test signer uses, adapted to this package's
// KeyDescriptor-based SignDescriptor.
type mockSigner struct {
	keys map[string]*btcec.PrivateKey
}

func newMockSigner(privkeys ...*btcec.PrivateKey) *mockSigner {
	m := &mockSigner{keys: make(map[string]*btcec.PrivateKey)}
	for _, priv := range privkeys {
		m.keys[hex.EncodeToString(priv.PubKey().SerializeCompressed())] = priv
	}
	return m
}

func (m *mockSigner) resolve(signDesc *input.SignDescriptor) (*btcec.PrivateKey, error) {
	base, ok := m.keys[hex.EncodeToString(signDesc.KeyDesc.PubKey.SerializeCompressed())]
	if !ok {
		return nil, fmt.Errorf("mock signer: no key for %x",
			signDesc.KeyDesc.PubKey.SerializeCompressed())
	}

	switch {
	case signDesc.SingleTweak != nil:
		return input.TweakPrivKey(base, signDesc.SingleTweak), nil
	case signDesc.DoubleTweak != nil:
		return input.DeriveRevocationPrivKey(base, signDesc.DoubleTweak), nil
	default:
		return base, nil
	}
}

func (m *mockSigner) SignOutputRaw(tx *wire.MsgTx, signDesc *input.SignDescriptor) ([]byte, error) {
	privKey, err := m.resolve(signDesc)
	if err != nil {
		return nil, err
	}

	sig, err := txscript.RawTxInWitnessSignature(
		tx, signDesc.SigHashes, signDesc.InputIndex, signDesc.Output.Value,
		signDesc.WitnessScript, txscript.SigHashAll, privKey,
	)
	if err != nil {
		return nil, err
	}

	return sig[:len(sig)-1], nil
}

func (m *mockSigner) ComputeInputScript(tx *wire.MsgTx, signDesc *input.SignDescriptor) (*input.Script, error) {
	return nil, fmt.Errorf("mock signer: ComputeInputScript not implemented")
}
