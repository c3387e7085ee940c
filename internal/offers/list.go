package offers

import (
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/pagination"
)

// OfferListFilters describe the supported filter knobs for the marketplace
// browse endpoint. All filters are exact-match.
type OfferListFilters struct {
	Category     *string             `json:"category,omitempty"`
	ServiceArea  *string             `json:"service_area,omitempty"`
	ExchangeType *enums.ExchangeType `json:"exchange_type,omitempty"`
}

// ListOffersInput captures the inputs needed to paginate/filter published offers.
type ListOffersInput struct {
	Filters    OfferListFilters
	Pagination pagination.Params
}
