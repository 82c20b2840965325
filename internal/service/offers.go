package service

import (
	"context"
	"fmt"

	"github.com/morningshift/breakfast/internal/models"
)

// ActiveOffers is the public view of a date's catalog, split by offer type.
type ActiveOffers struct {
	Mains []*models.Offer
	Sides []*models.Offer
}

// Empty reports whether nothing is offered.
func (o ActiveOffers) Empty() bool {
	return len(o.Mains) == 0 && len(o.Sides) == 0
}

// ListActiveOffers returns the date's active offers split into mains and
// sides, each annotated with its display label (and unit for sides).
func (s *Service) ListActiveOffers(ctx context.Context, date string) (ActiveOffers, error) {
	offers, err := s.Offers.ListByDate(ctx, date)
	if err != nil {
		return ActiveOffers{}, err
	}

	var out ActiveOffers
	for _, o := range offers {
		if !o.IsActive {
			continue
		}
		switch o.Type {
		case models.OfferTypeMain:
			out.Mains = append(out.Mains, o)
		case models.OfferTypeSide:
			out.Sides = append(out.Sides, o)
		}
	}
	return out, nil
}

// AddMainOffer offers a recipe as the date's main dish. If an offer for the
// exact (date, recipe) already exists it is reactivated and its cap
// overwritten instead of duplicated.
func (s *Service) AddMainOffer(ctx context.Context, date string, recipeID int64, maxPerPerson int) error {
	return s.addOrReactivate(ctx, date, models.OfferTypeMain, recipeID, maxPerPerson)
}

// AddSideOffer offers a food as a side for the date, with the same
// reactivate-instead-of-duplicate behavior as AddMainOffer.
func (s *Service) AddSideOffer(ctx context.Context, date string, foodID int64, maxPerPerson int) error {
	return s.addOrReactivate(ctx, date, models.OfferTypeSide, foodID, maxPerPerson)
}

func (s *Service) addOrReactivate(ctx context.Context, date string, typ models.OfferType, refID int64, maxPerPerson int) error {
	if maxPerPerson < 1 {
		maxPerPerson = 1
	}

	existing, err := s.Offers.GetByReference(ctx, date, typ, refID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.Offers.Reactivate(ctx, existing.ID, maxPerPerson)
	}

	offer := &models.Offer{
		Date:         date,
		Type:         typ,
		MaxPerPerson: maxPerPerson,
		IsActive:     true,
	}
	switch typ {
	case models.OfferTypeMain:
		offer.RecipeID = &refID
	case models.OfferTypeSide:
		offer.FoodID = &refID
	default:
		return fmt.Errorf("unknown offer type %q", typ)
	}

	_, err = s.Offers.Create(ctx, offer)
	return err
}

// UpdateOfferMax overwrites an offer's per-person cap, clamped to >= 1.
func (s *Service) UpdateOfferMax(ctx context.Context, offerID int64, maxPerPerson int) error {
	if maxPerPerson < 1 {
		maxPerPerson = 1
	}
	return s.Offers.UpdateMax(ctx, offerID, maxPerPerson)
}

// SetOfferActive toggles an offer's visibility without deleting it, so past
// reservation lines keep resolving their labels.
func (s *Service) SetOfferActive(ctx context.Context, offerID int64, active bool) error {
	return s.Offers.SetActive(ctx, offerID, active)
}
