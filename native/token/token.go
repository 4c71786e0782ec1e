package token

import (
	"math/big"
	"time"

	"launchpad/core/events"
	"launchpad/crypto"
)

// Decimals is the fixed decimal precision of every launchpad ledger token.
const Decimals = 18

// Token is an in-process fungible token ledger. It backs both the sold asset
// and the stable payment currencies accepted by the sale engine, so the same
// transfer semantics apply on both sides of a purchase.
//
// The ledger is not safe for concurrent use; callers are expected to serialize
// operations the way the RPC layer does.
type Token struct {
	name   string
	symbol string
	owner  crypto.Address

	totalSupply *big.Int
	balances    map[crypto.Address]*big.Int
	allowances  map[crypto.Address]map[crypto.Address]*big.Int

	bridge      crypto.Address
	update      *BridgeUpdate
	gracePeriod int64

	emitter events.Emitter
	nowFn   func() int64
}

// New mints the full initial supply to the deployer and returns the ledger.
func New(name, symbol string, initialSupply *big.Int, owner crypto.Address) *Token {
	t := &Token{
		name:        name,
		symbol:      symbol,
		owner:       owner,
		totalSupply: big.NewInt(0),
		balances:    make(map[crypto.Address]*big.Int),
		allowances:  make(map[crypto.Address]map[crypto.Address]*big.Int),
		gracePeriod: DefaultBridgeGracePeriod,
		emitter:     events.NoopEmitter{},
		nowFn:       func() int64 { return time.Now().Unix() },
	}
	if initialSupply != nil && initialSupply.Sign() > 0 {
		t.totalSupply = new(big.Int).Set(initialSupply)
		t.balances[owner] = new(big.Int).Set(initialSupply)
		t.emit(transferEvent(crypto.ZeroAddress, owner, initialSupply.String()))
	}
	return t
}

// SetEmitter configures the event emitter used by the ledger.
func (t *Token) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		t.emitter = events.NoopEmitter{}
		return
	}
	t.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (t *Token) SetNowFunc(now func() int64) {
	if now == nil {
		t.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	t.nowFn = now
}

func (t *Token) emit(evt *events.Event) {
	if t == nil || evt == nil || t.emitter == nil {
		return
	}
	t.emitter.Emit(evt)
}

func (t *Token) now() int64 {
	if t == nil || t.nowFn == nil {
		return time.Now().Unix()
	}
	return t.nowFn()
}

// Name returns the token name.
func (t *Token) Name() string { return t.name }

// Symbol returns the token symbol.
func (t *Token) Symbol() string { return t.symbol }

// Owner returns the current privileged operator.
func (t *Token) Owner() crypto.Address { return t.owner }

// TotalSupply returns the circulating supply.
func (t *Token) TotalSupply() *big.Int {
	return new(big.Int).Set(t.totalSupply)
}

// BalanceOf returns the balance held by addr.
func (t *Token) BalanceOf(addr crypto.Address) *big.Int {
	if bal, ok := t.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return big.NewInt(0)
}

// Allowance returns how much spender may move out of owner's balance.
func (t *Token) Allowance(owner, spender crypto.Address) *big.Int {
	if spenders, ok := t.allowances[owner]; ok {
		if amount, ok := spenders[spender]; ok {
			return new(big.Int).Set(amount)
		}
	}
	return big.NewInt(0)
}

// Transfer moves amount from one balance to another.
func (t *Token) Transfer(from, to crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrInvalidAddress
	}
	return t.move(from, to, amount)
}

// Approve sets spender's allowance over owner's balance.
func (t *Token) Approve(owner, spender crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if spender.IsZero() {
		return ErrInvalidAddress
	}
	spenders, ok := t.allowances[owner]
	if !ok {
		spenders = make(map[crypto.Address]*big.Int)
		t.allowances[owner] = spenders
	}
	spenders[spender] = new(big.Int).Set(amount)
	t.emit(approvalEvent(owner, spender, amount.String()))
	return nil
}

// TransferFrom moves amount out of from's balance on behalf of spender,
// consuming spender's allowance.
func (t *Token) TransferFrom(spender, from, to crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrInvalidAddress
	}
	allowance := t.Allowance(from, spender)
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	t.allowances[from][spender] = allowance.Sub(allowance, amount)
	return nil
}

// Burn destroys amount out of from's own balance and shrinks total supply.
func (t *Token) Burn(from crypto.Address, amount *big.Int) error {
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

// TransferOwnership rotates the privileged operator. It is owner-only and not
// gated by any sale phase.
func (t *Token) TransferOwnership(caller, newOwner crypto.Address) error {
	if caller != t.owner {
		return ErrUnauthorized
	}
	if newOwner.IsZero() {
		return ErrInvalidAddress
	}
	previous := t.owner
	t.owner = newOwner
	t.emit(ownershipTransferredEvent(previous, newOwner))
	return nil
}

func (t *Token) move(from, to crypto.Address, amount *big.Int) error {
	if err := t.debit(from, amount); err != nil {
		return err
	}
	t.credit(to, amount)
	t.emit(transferEvent(from, to, amount.String()))
	return nil
}

func (t *Token) debit(from crypto.Address, amount *big.Int) error {
	bal, ok := t.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	t.balances[from] = new(big.Int).Sub(bal, amount)
	return nil
}

func (t *Token) credit(to crypto.Address, amount *big.Int) {
	bal, ok := t.balances[to]
	if !ok {
		bal = big.NewInt(0)
	}
	t.balances[to] = new(big.Int).Add(bal, amount)
}
