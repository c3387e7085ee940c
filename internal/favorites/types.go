package favorites

import (
	"time"

	"github.com/google/uuid"

	offers "github.com/flo-kian-baban/connex-backend/internal/offers"
)

// FavoriteItemDTO wraps the offer summary included in a favorites row.
type FavoriteItemDTO struct {
	Offer       offers.OfferSummary `json:"offer"`
	FavoritedAt time.Time           `json:"favorited_at"`
}

// FavoritesPageDTO returns a cursor-paginated favorites view.
type FavoritesPageDTO struct {
	Items      []FavoriteItemDTO `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// FavoriteIDsDTO is a lightweight projection containing only offer IDs.
// The marketplace uses it to mark already-saved offers in list views.
type FavoriteIDsDTO struct {
	OfferIDs   []uuid.UUID `json:"offer_ids"`
	NextCursor string      `json:"next_cursor,omitempty"`
}
