package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flo-kian-baban/connex-backend/pkg/config"
	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
	"github.com/flo-kian-baban/connex-backend/pkg/security"
	"github.com/flo-kian-baban/connex-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the seed service.
type ServiceParams struct {
	DB       txRunner
	Logger   *logger.Logger
	Seed     config.SeedConfig
	Password config.PasswordConfig
}

// Result summarizes what a seeding run inserted.
type Result struct {
	ProvidersCreated int `json:"providers_created"`
	OffersCreated    int `json:"offers_created"`
}

// Service populates demo provider accounts with published offers.
type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type service struct {
	db       txRunner
	logg     *logger.Logger
	seed     config.SeedConfig
	password config.PasswordConfig
}

// NewService builds the seed service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Seed.ProviderCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "seed provider count must be positive")
	}
	if params.Seed.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "seed password required")
	}
	return &service{
		db:       params.DB,
		logg:     params.Logger,
		seed:     params.Seed,
		password: params.Password,
	}, nil
}

type providerTemplate struct {
	business    string
	category    string
	serviceArea string
	offerTitle  string
	exchange    enums.ExchangeType
	discount    string
}

var providerTemplates = []providerTemplate{
	{"The Daily Grind Cafe", "food_and_drink", "Berlin", "Brunch reel for our new menu", enums.ExchangeTypeFree, ""},
	{"Luna Yoga Studio", "fitness", "Hamburg", "Morning flow class story takeover", enums.ExchangeTypeDiscount, "50"},
	{"Brick Lane Barbers", "beauty", "Berlin", "Fresh cut before/after short", enums.ExchangeTypeFree, ""},
	{"Verde Plant Shop", "retail", "Munich", "Plant styling haul video", enums.ExchangeTypeDiscount, "25"},
	{"Saltwater Sauna", "wellness", "Hamburg", "Winter sauna session vlog", enums.ExchangeTypeFree, ""},
	{"Nonna's Trattoria", "food_and_drink", "Munich", "Pasta night tasting reel", enums.ExchangeTypeDiscount, "30"},
	{"Peak Climbing Gym", "fitness", "Berlin", "First climb experience video", enums.ExchangeTypeFree, ""},
	{"Atelier Bloom", "retail", "Cologne", "Seasonal bouquet unboxing", enums.ExchangeTypeDiscount, "20"},
}

// Run inserts demo providers and one published offer each. Existing demo
// accounts are skipped, so repeated runs are safe.
func (s *service) Run(ctx context.Context) (*Result, error) {
	hash, err := security.HashPassword(s.seed.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash seed password")
	}

	result := &Result{}
	count := s.seed.ProviderCount
	if count > len(providerTemplates) {
		count = len(providerTemplates)
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			tpl := providerTemplates[i]
			created, err := s.seedProvider(tx, i+1, tpl, hash)
			if err != nil {
				return err
			}
			if created {
				result.ProvidersCreated++
				result.OffersCreated++
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "seed demo data")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"providers_created": result.ProvidersCreated,
			"offers_created":    result.OffersCreated,
		}), "seed run finished")
	}
	return result, nil
}

func (s *service) seedProvider(tx *gorm.DB, index int, tpl providerTemplate, passwordHash string) (bool, error) {
	email := fmt.Sprintf("provider%d@connex.demo", index)

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         enums.UserRoleProvider,
		DisplayName:  tpl.business,
		IsActive:     true,
	}
	insert := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user)
	if insert.Error != nil {
		return false, insert.Error
	}
	if insert.RowsAffected == 0 {
		return false, nil
	}

	description := fmt.Sprintf("%s is looking for local creators.", tpl.business)
	provider := models.Provider{
		UserID:       user.ID,
		BusinessName: tpl.business,
		Description:  &description,
		ServiceAreas: pq.StringArray{tpl.serviceArea},
	}
	if err := tx.Create(&provider).Error; err != nil {
		return false, err
	}

	now := time.Now().UTC()
	offer := models.Offer{
		ProviderID:  provider.ID,
		Title:       tpl.offerTitle,
		Description: fmt.Sprintf("Collaborate with %s and share the experience with your audience.", tpl.business),
		Category:    tpl.category,
		ServiceArea: tpl.serviceArea,
		Deliverables: types.Deliverables{
			{Type: "reel", Count: 1},
			{Type: "story", Count: 2},
		},
		ExchangeType: tpl.exchange,
		Status:       enums.OfferStatusPublished,
		PublishedAt:  &now,
	}
	if tpl.exchange == enums.ExchangeTypeDiscount && tpl.discount != "" {
		pct, err := decimal.NewFromString(tpl.discount)
		if err != nil {
			return false, err
		}
		offer.DiscountPercent = &pct
	}
	if err := tx.Create(&offer).Error; err != nil {
		return false, err
	}
	return true, nil
}
