package validator

import (
	"strings"
	"testing"
	"time"

	"travelbook/pkg/logger"
	"travelbook/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestValidateOffer(t *testing.T) {
	v := NewOfferValidator(testLogger())

	tests := []struct {
		name    string
		offer   model.Offer
		wantErr string
	}{
		{
			name: "valid offer",
			offer: model.Offer{
				Title:         "Monsoon Getaway",
				OfferPrice:    2000,
				OriginalPrice: 3500,
				ExpiresAt:     time.Now().AddDate(0, 1, 0),
			},
		},
		{
			name:    "missing title",
			offer:   model.Offer{OfferPrice: 2000},
			wantErr: "Title is required",
		},
		{
			name:    "missing price",
			offer:   model.Offer{Title: "Monsoon Getaway"},
			wantErr: "OfferPrice is required",
		},
		{
			name: "discount not a discount",
			offer: model.Offer{
				Title:         "Monsoon Getaway",
				OfferPrice:    2000,
				OriginalPrice: 1500,
			},
			wantErr: "OriginalPrice must be greater than OfferPrice",
		},
		{
			name: "bad image url",
			offer: model.Offer{
				Title:      "Monsoon Getaway",
				OfferPrice: 2000,
				ImageURL:   "not a url",
			},
			wantErr: "ImageURL must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.offer)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUpdateCrossField(t *testing.T) {
	v := NewOfferValidator(testLogger())

	offerPrice := int64(2000)
	lower := int64(1500)
	higher := int64(3000)

	if err := v.ValidateUpdate(&model.OfferUpdate{OfferPrice: &offerPrice, OriginalPrice: &higher}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.ValidateUpdate(&model.OfferUpdate{OfferPrice: &offerPrice, OriginalPrice: &lower})
	if err == nil {
		t.Fatal("expected the inverted price pair to be rejected")
	}
	if !strings.Contains(err.Error(), "originalPrice must be greater than offerPrice") {
		t.Errorf("error = %q", err.Error())
	}

	// Either side alone is fine; the cross check needs both.
	if err := v.ValidateUpdate(&model.OfferUpdate{OriginalPrice: &lower}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
