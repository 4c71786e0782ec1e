package sale

import (
	"math/big"
	"strconv"
	"strings"

	"launchpad/core/events"
	"launchpad/crypto"
)

const (
	// EventTypeSaleInitialized is emitted once when the full parameter set
	// is committed at construction time.
	EventTypeSaleInitialized = "sale.initialized"
	// EventTypeConfigUpdated is emitted by every configuration setter.
	EventTypeConfigUpdated = "sale.config_updated"
	// EventTypeCurrencyAuthorized is emitted per payment currency processed.
	EventTypeCurrencyAuthorized = "sale.currency_authorized"
	// EventTypeOwnershipTransferred is emitted when the sale owner rotates.
	EventTypeOwnershipTransferred = "sale.ownership_transferred"
	// EventTypeTokenBought is emitted for every successful purchase.
	EventTypeTokenBought = "sale.token_bought"
	// EventTypeTokenWithdrawn is emitted for every withdrawal call,
	// including zero-payout no-ops.
	EventTypeTokenWithdrawn = "sale.token_withdrawn"
	// EventTypeSaleFinalized is emitted when the unsold remainder burns.
	EventTypeSaleFinalized = "sale.finalized"
)

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func saleInitializedEvent(cfg *SaleConfig, currencies []crypto.Address) *events.Event {
	list := make([]string, 0, len(currencies))
	for _, addr := range currencies {
		list = append(list, addr.String())
	}
	return &events.Event{
		Type: EventTypeSaleInitialized,
		Attributes: map[string]string{
			"wallet":                 cfg.Wallet.String(),
			"saleStart":              strconv.FormatInt(cfg.SaleStart, 10),
			"saleEnd":                strconv.FormatInt(cfg.SaleEnd, 10),
			"withdrawStart":          strconv.FormatInt(cfg.WithdrawStart, 10),
			"withdrawPeriodDuration": strconv.FormatInt(cfg.WithdrawPeriodDuration, 10),
			"withdrawPeriodNumber":   strconv.FormatUint(cfg.WithdrawPeriodNumber, 10),
			"minBuyValue":            amountString(cfg.MinBuyValue),
			"maxTokenPerAddress":     amountString(cfg.MaxTokenPerAddress),
			"exchangeRate":           amountString(cfg.ExchangeRate),
			"referralPercentage":     strconv.FormatUint(cfg.ReferralPercentage, 10),
			"authorizedCurrencies":   strings.Join(list, ","),
		},
	}
}

func configUpdatedEvent(field, value string, updater crypto.Address) *events.Event {
	return &events.Event{
		Type: EventTypeConfigUpdated,
		Attributes: map[string]string{
			"field":   field,
			"value":   value,
			"updater": updater.String(),
		},
	}
}

func currencyAuthorizedEvent(addr crypto.Address) *events.Event {
	return &events.Event{
		Type: EventTypeCurrencyAuthorized,
		Attributes: map[string]string{
			"currency": addr.String(),
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

func tokenBoughtEvent(buyer, currency, referral crypto.Address, value, tokenAmount, referralAmount *big.Int) *events.Event {
	return &events.Event{
		Type: EventTypeTokenBought,
		Attributes: map[string]string{
			"buyer":          buyer.String(),
			"currency":       currency.String(),
			"value":          amountString(value),
			"referral":       referral.String(),
			"tokenAmount":    amountString(tokenAmount),
			"referralAmount": amountString(referralAmount),
		},
	}
}

func tokenWithdrawnEvent(account crypto.Address, amount *big.Int) *events.Event {
	return &events.Event{
		Type: EventTypeTokenWithdrawn,
		Attributes: map[string]string{
			"account": account.String(),
			"amount":  amountString(amount),
		},
	}
}

func saleFinalizedEvent(burned *big.Int, finalizedAt int64) *events.Event {
	return &events.Event{
		Type: EventTypeSaleFinalized,
		Attributes: map[string]string{
			"burnedAmount": amountString(burned),
			"finalizedAt":  strconv.FormatInt(finalizedAt, 10),
		},
	}
}
