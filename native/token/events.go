package token

import (
	"strconv"

	"launchpad/core/events"
	"launchpad/crypto"
)

const (
	// EventTypeTransfer is emitted for every balance movement, including
	// mints (from the zero address) and burns (to the zero address).
	EventTypeTransfer = "token.transfer"
	// EventTypeApproval is emitted when a spender allowance changes.
	EventTypeApproval = "token.approval"
	// EventTypeOwnershipTransferred is emitted when the owner rotates.
	EventTypeOwnershipTransferred = "token.ownership_transferred"
	// EventTypeBridgeUpdateLaunched is emitted when a bridge rotation is staged.
	EventTypeBridgeUpdateLaunched = "token.bridge_update_launched"
	// EventTypeBridgeUpdateExecuted is emitted when a staged rotation activates.
	EventTypeBridgeUpdateExecuted = "token.bridge_update_executed"
)

func transferEvent(from, to crypto.Address, amount string) *events.Event {
	return &events.Event{
		Type: EventTypeTransfer,
		Attributes: map[string]string{
			"from":   from.String(),
			"to":     to.String(),
			"amount": amount,
		},
	}
}

func approvalEvent(owner, spender crypto.Address, amount string) *events.Event {
	return &events.Event{
		Type: EventTypeApproval,
		Attributes: map[string]string{
			"owner":   owner.String(),
			"spender": spender.String(),
			"amount":  amount,
		},
	}
}

func ownershipTransferredEvent(previous, next crypto.Address) *events.Event {
	return &events.Event{
		Type: EventTypeOwnershipTransferred,
		Attributes: map[string]string{
			"previousOwner": previous.String(),
			"newOwner":      next.String(),
		},
	}
}

func bridgeUpdateLaunchedEvent(newBridge crypto.Address, launchedAt int64) *events.Event {
	return &events.Event{
		Type: EventTypeBridgeUpdateLaunched,
		Attributes: map[string]string{
			"newBridge":  newBridge.String(),
			"launchedAt": strconv.FormatInt(launchedAt, 10),
		},
	}
}

func bridgeUpdateExecutedEvent(newBridge crypto.Address, executedAt int64) *events.Event {
	return &events.Event{
		Type: EventTypeBridgeUpdateExecuted,
		Attributes: map[string]string{
			"newBridge":  newBridge.String(),
			"executedAt": strconv.FormatInt(executedAt, 10),
		},
	}
}
