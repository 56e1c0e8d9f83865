package listings

import (
	"context"

	"github.com/dmitrijs2005/workboard/internal/server/models"
)

type Repository interface {
	// FindAll returns every listing, newest first.
	FindAll(ctx context.Context) ([]*models.Listing, error)
	FindByID(ctx context.Context, id int64) (*models.Listing, error)

	// Insert stores the whitelisted fields as a new listing owned by ownerID
	// and returns the generated id. Empty field values are persisted as NULL.
	Insert(ctx context.Context, ownerID int64, fields models.ListingFields) (int64, error)

	// Update overwrites the whitelisted fields of an existing listing. The
	// owner column is never touched.
	Update(ctx context.Context, id int64, fields models.ListingFields) error

	Delete(ctx context.Context, id int64) error

	// Search matches keywords against title/description/tags/company and
	// location against city/state, both as case-insensitive substrings. An
	// empty term matches everything.
	Search(ctx context.Context, keywords, location string) ([]*models.Listing, error)

	// SetLogoKey records the object-storage key of the listing's company logo.
	SetLogoKey(ctx context.Context, id int64, key string) error
}
