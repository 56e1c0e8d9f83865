package models

import "time"

// Listing is a job posting owned by a user. All request-writable columns are
// nullable in storage: an empty submitted value is persisted as NULL, which
// the pointer fields reflect as nil.
type Listing struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Salary       *string    `json:"salary"`
	Tags         *string    `json:"tags"`
	Company      *string    `json:"company"`
	Address      *string    `json:"address"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"`
	Requirements *string    `json:"requirements"`
	Benefits     *string    `json:"benefits"`
	LogoKey      *string    `json:"logo_key,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ListingFields is the fixed set of fields a request may write to a listing.
// Anything outside this set never reaches the repository.
type ListingFields struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Salary       string `json:"salary"`
	Tags         string `json:"tags"`
	Company      string `json:"company"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Requirements string `json:"requirements"`
	Benefits     string `json:"benefits"`
}

// Fields returns the listing's writable values as a ListingFields bag,
// with NULL columns observed as empty strings. Used to echo the stored
// (pre-edit) data back to a form when an update is rejected.
func (l *Listing) Fields() ListingFields {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return ListingFields{
		Title:        deref(l.Title),
		Description:  deref(l.Description),
		Salary:       deref(l.Salary),
		Tags:         deref(l.Tags),
		Company:      deref(l.Company),
		Address:      deref(l.Address),
		City:         deref(l.City),
		State:        deref(l.State),
		Phone:        deref(l.Phone),
		Email:        deref(l.Email),
		Requirements: deref(l.Requirements),
		Benefits:     deref(l.Benefits),
	}
}
