package lnchannel

import "github.com/lnchannels/commitcore/lnwire"

// LocalChanges tracks the lifecycle of updates the local party has
// originated, from proposal through to being acked by the remote party's
// revocation.
type LocalChanges struct {
	// Proposed holds updates sent but not yet included in any signed
	// local commitment.
	Proposed []lnwire.Message

	// Signed holds updates included in the current outstanding local
	// commitment, awaiting the remote party's ack (its revocation of
	// the commitment prior to this one).
	Signed []lnwire.Message

	// Acked holds updates the remote party has acknowledged by
	// revoking the commitment that preceded the one containing them.
	Acked []lnwire.Message
}

// RemoteChanges tracks the lifecycle of updates the remote party has sent,
// from proposal through to being acked by the local party's own revocation.
type RemoteChanges struct {
	// Proposed holds updates received but not yet included in any
	// signed remote commitment.
	Proposed []lnwire.Message

	// Acked holds updates the local party has included in a signed
	// remote commitment and therefore acknowledged.
	Acked []lnwire.Message
}

// localHasChanges reports whether there is anything new for SendCommit to
// sign into the next remote commitment: either remote changes we have
// already accepted, or local changes we have proposed but not yet signed.
func localHasChanges(c Commitments) bool {
	return len(c.RemoteChanges.Acked) > 0 || len(c.LocalChanges.Proposed) > 0
}

// remoteHasChanges reports whether the remote party had anything new to
// sign into the commitment a ReceiveCommit call is verifying: either local
// changes it has already accepted, or remote changes it has proposed but we
// have not yet signed.
func remoteHasChanges(c Commitments) bool {
	return len(c.LocalChanges.Acked) > 0 || len(c.RemoteChanges.Proposed) > 0
}
