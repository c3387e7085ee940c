package enums

import "fmt"

// OfferStatus maps to the offer_status enum in Postgres. Only published offers
// are visible in the marketplace.
type OfferStatus string

const (
	OfferStatusDraft     OfferStatus = "draft"
	OfferStatusPublished OfferStatus = "published"
)

var validOfferStatuses = []OfferStatus{
	OfferStatusDraft,
	OfferStatusPublished,
}

// IsValid reports whether the value matches the canonical offer_status enum.
func (s OfferStatus) IsValid() bool {
	for _, candidate := range validOfferStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOfferStatus converts raw input into OfferStatus.
func ParseOfferStatus(value string) (OfferStatus, error) {
	for _, candidate := range validOfferStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer status %q", value)
}

// ExchangeType maps to the exchange_type enum in Postgres.
type ExchangeType string

const (
	ExchangeTypeFree     ExchangeType = "free"
	ExchangeTypeDiscount ExchangeType = "discount"
	ExchangeTypeGifted   ExchangeType = "gifted"
)

var validExchangeTypes = []ExchangeType{
	ExchangeTypeFree,
	ExchangeTypeDiscount,
	ExchangeTypeGifted,
}

// IsValid reports whether the value matches the canonical exchange_type enum.
func (e ExchangeType) IsValid() bool {
	for _, candidate := range validExchangeTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExchangeType converts raw input into ExchangeType.
func ParseExchangeType(value string) (ExchangeType, error) {
	for _, candidate := range validExchangeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid exchange type %q", value)
}
