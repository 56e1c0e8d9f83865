package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/logging"
	"github.com/dmitrijs2005/workboard/internal/server/auth"
	"github.com/dmitrijs2005/workboard/internal/server/models"
	"github.com/dmitrijs2005/workboard/internal/server/repositories/listings"
	"github.com/dmitrijs2005/workboard/internal/server/sanitize"
	"github.com/dmitrijs2005/workboard/internal/server/session"
	"github.com/dmitrijs2005/workboard/internal/server/validation"
)

type ListingService struct {
	repo     listings.Repository
	sessions session.Store
	logger   logging.Logger
}

func NewListingService(repo listings.Repository, sessions session.Store, log logging.Logger) *ListingService {
	return &ListingService{
		repo:     repo,
		sessions: sessions,
		logger:   log.With("module", "listing_service"),
	}
}

// requiredListingFields is the fixed set a submission must carry for both
// create and update.
var requiredListingFields = []struct {
	name  string
	value func(models.ListingFields) string
}{
	{"title", func(f models.ListingFields) string { return f.Title }},
	{"salary", func(f models.ListingFields) string { return f.Salary }},
	{"description", func(f models.ListingFields) string { return f.Description }},
	{"email", func(f models.ListingFields) string { return f.Email }},
	{"city", func(f models.ListingFields) string { return f.City }},
	{"state", func(f models.ListingFields) string { return f.State }},
}

func ucfirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// sanitizeFields runs every whitelisted field through the sanitizer, so
// validation and persistence only ever see cleaned values.
func sanitizeFields(f models.ListingFields) models.ListingFields {
	return models.ListingFields{
		Title:        sanitize.Sanitize(f.Title),
		Description:  sanitize.Sanitize(f.Description),
		Salary:       sanitize.Sanitize(f.Salary),
		Tags:         sanitize.Sanitize(f.Tags),
		Company:      sanitize.Sanitize(f.Company),
		Address:      sanitize.Sanitize(f.Address),
		City:         sanitize.Sanitize(f.City),
		State:        sanitize.Sanitize(f.State),
		Phone:        sanitize.Sanitize(f.Phone),
		Email:        sanitize.Sanitize(f.Email),
		Requirements: sanitize.Sanitize(f.Requirements),
		Benefits:     sanitize.Sanitize(f.Benefits),
	}
}

func requiredFieldErrors(f models.ListingFields) map[string]string {
	errs := map[string]string{}
	for _, rf := range requiredListingFields {
		// Presence only: any non-blank value passes, regardless of length.
		if !validation.String(rf.value(f), 1, math.MaxInt) {
			errs[rf.name] = ucfirst(rf.name) + " is required"
		}
	}
	return errs
}

// flash records a one-shot message on the acting session. An anonymous
// session has nowhere to flash to; a store failure is logged but never fails
// the action that already happened.
func (s *ListingService) flash(ctx context.Context, sess Session, kind session.FlashKind, msg string) {
	if sess.ID == "" {
		return
	}
	if err := s.sessions.SetFlash(ctx, sess.ID, session.Flash{Kind: kind, Message: msg}); err != nil {
		s.logger.Warn(ctx, "failed to set flash message", "session_id", sess.ID, "error", err.Error())
	}
}

// List returns every listing, newest first.
func (s *ListingService) List(ctx context.Context) ([]*models.Listing, error) {
	result, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list listings", "error", err.Error())
		return nil, err
	}
	return result, nil
}

// Show fetches a single listing. Returns common.ErrorNotFound when the id is
// unknown.
func (s *ListingService) Show(ctx context.Context, id int64) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "failed to fetch listing", "listing_id", id, "error", err.Error())
		}
		return nil, err
	}
	return listing, nil
}

// Create sanitizes and validates the submission, then inserts a listing
// owned by the acting session's user.
func (s *ListingService) Create(ctx context.Context, sess Session, input models.ListingFields) (Outcome, error) {
	fields := sanitizeFields(input)

	if errs := requiredFieldErrors(fields); len(errs) > 0 {
		return Rejected{Errors: errs, Echo: fields}, nil
	}

	id, err := s.repo.Insert(ctx, sess.UserID, fields)
	if err != nil {
		s.logger.Error(ctx, "failed to insert listing", "user_id", sess.UserID, "error", err.Error())
		return nil, err
	}

	s.logger.Info(ctx, "listing created", "listing_id", id, "user_id", sess.UserID)
	s.flash(ctx, sess, session.FlashSuccess, "Listing created successfully")
	return Redirect{Location: "/listings"}, nil
}

// Update applies a full field update to a listing the acting session owns.
// A non-owner is redirected back with an error flash and no mutation. A
// rejected validation echoes the stored, pre-edit data.
func (s *ListingService) Update(ctx context.Context, sess Session, id int64, input models.ListingFields) (Outcome, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return NotFound{}, nil
		}
		s.logger.Error(ctx, "failed to fetch listing", "listing_id", id, "error", err.Error())
		return nil, err
	}

	if !auth.IsOwner(sess.UserID, listing.UserID) {
		s.logger.Warn(ctx, "update forbidden",
			"listing_id", id, "owner_id", listing.UserID, "user_id", sess.UserID)
		s.flash(ctx, sess, session.FlashError, "You are not authorized to update this listing")
		return Redirect{Location: fmt.Sprintf("/listings/%d", listing.ID)}, nil
	}

	fields := sanitizeFields(input)
	if errs := requiredFieldErrors(fields); len(errs) > 0 {
		return Rejected{Errors: errs, Echo: listing.Fields()}, nil
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return NotFound{}, nil
		}
		s.logger.Error(ctx, "failed to update listing", "listing_id", id, "error", err.Error())
		return nil, err
	}

	s.logger.Info(ctx, "listing updated", "listing_id", id, "user_id", sess.UserID)
	s.flash(ctx, sess, session.FlashSuccess, "Listing updated successfully")
	return Redirect{Location: fmt.Sprintf("/listings/%d", id)}, nil
}

// Delete removes a listing the acting session owns. A non-owner is
// redirected to the listing with an error flash and no deletion.
func (s *ListingService) Delete(ctx context.Context, sess Session, id int64) (Outcome, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return NotFound{}, nil
		}
		s.logger.Error(ctx, "failed to fetch listing", "listing_id", id, "error", err.Error())
		return nil, err
	}

	if !auth.IsOwner(sess.UserID, listing.UserID) {
		s.logger.Warn(ctx, "delete forbidden",
			"listing_id", id, "owner_id", listing.UserID, "user_id", sess.UserID)
		s.flash(ctx, sess, session.FlashError, "You are not authorized to delete this listing")
		return Redirect{Location: fmt.Sprintf("/listings/%d", listing.ID)}, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return NotFound{}, nil
		}
		s.logger.Error(ctx, "failed to delete listing", "listing_id", id, "error", err.Error())
		return nil, err
	}

	s.logger.Info(ctx, "listing deleted", "listing_id", id, "user_id", sess.UserID)
	s.flash(ctx, sess, session.FlashSuccess, "Listing deleted successfully")
	return Redirect{Location: "/listings"}, nil
}

// Search matches listings by keyword and location. Both terms are trimmed
// but otherwise passed through; an empty term matches everything.
func (s *ListingService) Search(ctx context.Context, keywords, location string) ([]*models.Listing, error) {
	keywords = strings.TrimSpace(keywords)
	location = strings.TrimSpace(location)

	result, err := s.repo.Search(ctx, keywords, location)
	if err != nil {
		s.logger.Error(ctx, "failed to search listings",
			"keywords", keywords, "location", location, "error", err.Error())
		return nil, err
	}
	return result, nil
}

// PopFlashes drains the pending one-shot messages of the acting session.
func (s *ListingService) PopFlashes(ctx context.Context, sess Session) []session.Flash {
	if sess.ID == "" {
		return nil
	}
	flashes, err := s.sessions.PopFlashes(ctx, sess.ID)
	if err != nil {
		s.logger.Warn(ctx, "failed to pop flash messages", "session_id", sess.ID, "error", err.Error())
		return nil
	}
	return flashes
}
