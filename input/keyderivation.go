package input

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SingleTweakBytes computes the single-tweak hash used to derive a
// per-commitment key from a basepoint: sha256(perCommitPoint || basePoint).
func SingleTweakBytes(perCommitPoint, basePoint *btcec.PublicKey) []byte {
	h := sha256.New()
	h.Write(perCommitPoint.SerializeCompressed())
	h.Write(basePoint.SerializeCompressed())
	return h.Sum(nil)
}

// TweakPubKey derives the per-commitment public key for a basepoint: the
// basepoint shifted by SingleTweakBytes(perCommitPoint, basePoint) * G.
func TweakPubKey(basePoint, perCommitPoint *btcec.PublicKey) *btcec.PublicKey {
	tweakBytes := SingleTweakBytes(perCommitPoint, basePoint)
	return TweakPubKeyWithTweak(basePoint, tweakBytes)
}

// TweakPubKeyWithTweak derives a tweaked public key given a basepoint and a
// raw 32-byte tweak, rather than computing the tweak from a commitment
// point. Used when the caller already has the tweak bytes (e.g. stored on a
// SignDescriptor).
func TweakPubKeyWithTweak(basePoint *btcec.PublicKey, tweakBytes []byte) *btcec.PublicKey {
	var tweakScalar secp256k1.ModNScalar
	tweakScalar.SetByteSlice(tweakBytes)

	var tweakPoint secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&tweakScalar, &tweakPoint)

	var baseJacobian secp256k1.JacobianPoint
	basePoint.AsJacobian(&baseJacobian)

	var result secp256k1.JacobianPoint
	secp256k1.AddNonConst(&baseJacobian, &tweakPoint, &result)
	result.ToAffine()

	return btcec.NewPublicKey(&result.X, &result.Y)
}

// TweakPrivKey derives the private key corresponding to TweakPubKey: the
// base private key plus the single tweak, mod the curve order.
func TweakPrivKey(basePriv *btcec.PrivateKey, tweakBytes []byte) *btcec.PrivateKey {
	var tweakScalar secp256k1.ModNScalar
	tweakScalar.SetByteSlice(tweakBytes)

	privScalar := basePriv.Key
	privScalar.Add(&tweakScalar)

	return btcec.PrivKeyFromScalar(&privScalar)
}

// revocationTweaks returns the two SHA256 tweaks used by the revocation key
// derivation: one binding the revocation basepoint, the other binding the
// per-commitment point.
func revocationTweaks(revocationBase, perCommitPoint *btcec.PublicKey) (
	revTweak, commitTweak [32]byte) {

	revHash := sha256.New()
	revHash.Write(revocationBase.SerializeCompressed())
	revHash.Write(perCommitPoint.SerializeCompressed())
	copy(revTweak[:], revHash.Sum(nil))

	commitHash := sha256.New()
	commitHash.Write(perCommitPoint.SerializeCompressed())
	commitHash.Write(revocationBase.SerializeCompressed())
	copy(commitTweak[:], commitHash.Sum(nil))

	return revTweak, commitTweak
}

// DeriveRevocationPubkey derives the public key that can claim a
// commitment's revocation clause:
//
//	revocationPubkey = revocationBase*revTweak + perCommitPoint*commitTweak
//
// Only the party who knows both the revocation basepoint's private key AND
// the per-commitment secret for perCommitPoint can ever reconstruct the
// matching private key - which is exactly the pair of facts that becomes
// true only after a commitment has been both signed and revoked.
func DeriveRevocationPubkey(revocationBase, perCommitPoint *btcec.PublicKey) *btcec.PublicKey {
	revTweak, commitTweak := revocationTweaks(revocationBase, perCommitPoint)

	var revTweakScalar, commitTweakScalar secp256k1.ModNScalar
	revTweakScalar.SetBytes(&revTweak)
	commitTweakScalar.SetBytes(&commitTweak)

	var baseJacobian, commitJacobian secp256k1.JacobianPoint
	revocationBase.AsJacobian(&baseJacobian)
	perCommitPoint.AsJacobian(&commitJacobian)

	var basePart, commitPart secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&revTweakScalar, &baseJacobian, &basePart)
	secp256k1.ScalarMultNonConst(&commitTweakScalar, &commitJacobian, &commitPart)

	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&basePart, &commitPart, &sum)
	sum.ToAffine()

	return btcec.NewPublicKey(&sum.X, &sum.Y)
}

// DeriveRevocationPrivKey derives the private key for DeriveRevocationPubkey
// once the commitment has been revoked and its per-commitment secret
// revealed:
//
//	revocationPriv = revocationBasePriv*revTweak + commitSecret*commitTweak
func DeriveRevocationPrivKey(revocationBasePriv *btcec.PrivateKey,
	commitSecret *btcec.PrivateKey) *btcec.PrivateKey {

	revTweak, commitTweak := revocationTweaks(
		revocationBasePriv.PubKey(), commitSecret.PubKey(),
	)

	var revTweakScalar, commitTweakScalar secp256k1.ModNScalar
	revTweakScalar.SetBytes(&revTweak)
	commitTweakScalar.SetBytes(&commitTweak)

	basePart := revocationBasePriv.Key
	basePart.Mul(&revTweakScalar)

	commitPart := commitSecret.Key
	commitPart.Mul(&commitTweakScalar)

	basePart.Add(&commitPart)

	return btcec.PrivKeyFromScalar(&basePart)
}

// ComputeCommitmentPoint derives the per-commitment public point from a
// 32-byte per-commitment secret: secret * G.
func ComputeCommitmentPoint(secret []byte) *btcec.PublicKey {
	priv, _ := btcec.PrivKeyFromBytes(secret)
	return priv.PubKey()
}
