package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

// AddressService manages the address list embedded in a user document.
// Every method operates on the caller's own document only.
type AddressService struct {
	repo    ports.UserRepository
	metrics ports.Metrics
	log     zerolog.Logger
}

func NewAddressService(repo ports.UserRepository, m ports.Metrics, log zerolog.Logger) *AddressService {
	return &AddressService{repo: repo, metrics: orNop(m), log: log}
}

// List returns the user's addresses in stored order and the default address ID.
func (s *AddressService) List(ctx context.Context, userID string) (*ports.AddressBook, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapRepoErr("list addresses", err)
	}

	book := &ports.AddressBook{Addresses: user.Addresses}
	if book.Addresses == nil {
		book.Addresses = []domain.Address{}
	}
	if def, ok := domain.DefaultOf(book.Addresses); ok {
		book.DefaultAddressID = def.ID
	}
	return book, nil
}

// Add appends a new address. With IsDefault set, all other addresses are
// demoted in the same repository update.
func (s *AddressService) Add(ctx context.Context, userID string, in ports.AddressInput) (*domain.Address, error) {
	addr := domain.Address{
		Street:    strings.TrimSpace(in.Street),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		Zip:       strings.TrimSpace(in.Zip),
		Country:   strings.TrimSpace(in.Country),
		IsDefault: in.IsDefault,
	}
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	created, err := s.repo.AddAddress(ctx, userID, addr)
	if err != nil {
		return nil, wrapRepoErr("add address", err)
	}

	op := "add"
	if created.IsDefault {
		op = "add_default"
	}
	s.metrics.AddressMutation(op)
	s.log.Info().Str("user_id", userID).Str("address_id", created.ID).Bool("default", created.IsDefault).Msg("address added")

	return created, nil
}

// Delete removes one address and returns the remaining list. Deleting the
// default address leaves the user without a default.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) ([]domain.Address, error) {
	remaining, err := s.repo.RemoveAddress(ctx, userID, addressID)
	if err != nil {
		return nil, wrapRepoErr("delete address", err)
	}
	if remaining == nil {
		remaining = []domain.Address{}
	}

	s.metrics.AddressMutation("delete")
	s.log.Info().Str("user_id", userID).Str("address_id", addressID).Msg("address deleted")

	return remaining, nil
}

func validateAddress(a domain.Address) error {
	var fields []string
	for _, f := range []struct{ name, value string }{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
	} {
		if f.value == "" {
			fields = append(fields, f.name+" is required")
		}
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// wrapRepoErr passes domain errors through and wraps everything else.
func wrapRepoErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrForbidden):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
