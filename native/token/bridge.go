package token

import (
	"math/big"

	"launchpad/crypto"
)

// DefaultBridgeGracePeriod is the delay between staging a bridge rotation and
// being allowed to execute it. Seven days gives holders time to review the new
// minting authority before it activates.
const DefaultBridgeGracePeriod = 7 * 24 * 60 * 60

// BridgeUpdate records a staged rotation of the bridge minting authority.
type BridgeUpdate struct {
	NewBridge  crypto.Address `json:"newBridge"`
	LaunchedAt int64          `json:"launchedAt"`
	Executed   bool           `json:"executed"`
}

// Clone returns a copy of the update record.
func (u *BridgeUpdate) Clone() *BridgeUpdate {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// SetBridgeGracePeriod overrides the rotation delay, in seconds. Intended for
// tests; production deployments keep the default.
func (t *Token) SetBridgeGracePeriod(seconds int64) {
	if seconds <= 0 {
		t.gracePeriod = DefaultBridgeGracePeriod
		return
	}
	t.gracePeriod = seconds
}

// Bridge returns the active bridge address, zero when none has been set.
func (t *Token) Bridge() crypto.Address { return t.bridge }

// BridgeUpdateRecord returns the most recently staged rotation, nil when no
// rotation has ever been launched.
func (t *Token) BridgeUpdateRecord() *BridgeUpdate {
	return t.update.Clone()
}

// LaunchBridgeUpdate stages a rotation of the bridge authority. Owner-only; a
// previously staged rotation must execute before a new one can be launched.
func (t *Token) LaunchBridgeUpdate(caller, newBridge crypto.Address) error {
	if caller != t.owner {
		return ErrUnauthorized
	}
	if newBridge.IsZero() {
		return ErrInvalidAddress
	}
	if t.update != nil && !t.update.Executed {
		return ErrUpdateInProgress
	}
	t.update = &BridgeUpdate{NewBridge: newBridge, LaunchedAt: t.now()}
	t.emit(bridgeUpdateLaunchedEvent(newBridge, t.update.LaunchedAt))
	return nil
}

// ExecuteBridgeUpdate activates a staged rotation once the grace period has
// elapsed. Owner-only.
func (t *Token) ExecuteBridgeUpdate(caller crypto.Address) error {
	if caller != t.owner {
		return ErrUnauthorized
	}
	if t.update == nil {
		return ErrUpdateNotPending
	}
	if t.update.Executed {
		return ErrUpdateExecuted
	}
	now := t.now()
	if now < t.update.LaunchedAt+t.gracePeriod {
		return ErrGraceNotElapsed
	}
	t.update.Executed = true
	t.bridge = t.update.NewBridge
	t.emit(bridgeUpdateExecutedEvent(t.bridge, now))
	return nil
}

// MintFromBridge mints new supply to an address. Active-bridge-only.
func (t *Token) MintFromBridge(caller, to crypto.Address, amount *big.Int) error {
	if t.bridge.IsZero() || caller != t.bridge {
		return ErrAccessDenied
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrInvalidAddress
	}
	t.credit(to, amount)
	t.totalSupply = new(big.Int).Add(t.totalSupply, amount)
	t.emit(transferEvent(crypto.ZeroAddress, to, amount.String()))
	return nil
}

// BurnFromBridge destroys supply held by an address. Active-bridge-only.
func (t *Token) BurnFromBridge(caller, from crypto.Address, amount *big.Int) error {
	if t.bridge.IsZero() || caller != t.bridge {
		return ErrAccessDenied
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := t.debit(from, amount); err != nil {
		return err
	}
	t.totalSupply = new(big.Int).Sub(t.totalSupply, amount)
	t.emit(transferEvent(from, crypto.ZeroAddress, amount.String()))
	return nil
}
