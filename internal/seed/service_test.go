package seed

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/config"
)

type noopTx struct{}

func (noopTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestNewServiceValidation(t *testing.T) {
	cases := []struct {
		name   string
		params ServiceParams
	}{
		{"missing db", ServiceParams{Seed: config.SeedConfig{ProviderCount: 3, Password: "x"}}},
		{"zero providers", ServiceParams{DB: noopTx{}, Seed: config.SeedConfig{Password: "x"}}},
		{"empty password", ServiceParams{DB: noopTx{}, Seed: config.SeedConfig{ProviderCount: 3}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewService(tc.params); err == nil {
				t.Fatal("expected constructor error")
			}
		})
	}
}

func TestProviderTemplatesArePublishable(t *testing.T) {
	for _, tpl := range providerTemplates {
		if tpl.business == "" || tpl.offerTitle == "" || tpl.category == "" || tpl.serviceArea == "" {
			t.Fatalf("incomplete template %+v", tpl)
		}
		if !tpl.exchange.IsValid() {
			t.Fatalf("invalid exchange type %q", tpl.exchange)
		}
		if tpl.exchange == "discount" && tpl.discount == "" {
			t.Fatalf("discount offer %q needs a percent", tpl.offerTitle)
		}
	}
}
