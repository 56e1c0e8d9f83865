package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/dbx"
	"github.com/dmitrijs2005/workboard/internal/server/models"
)

// Column lists are compile-time constants: field names derived from request
// input never reach the SQL text, only the parameter slots.
const listingColumns = `id, user_id, title, description, salary, tags, company, address, city, state, phone, email, requirements, benefits, logo_key, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// nullable converts an empty string to NULL so that a cleared field is
// distinguishable from an untouched one.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func fieldArgs(f models.ListingFields) []any {
	return []any{
		nullable(f.Title), nullable(f.Description), nullable(f.Salary),
		nullable(f.Tags), nullable(f.Company), nullable(f.Address),
		nullable(f.City), nullable(f.State), nullable(f.Phone),
		nullable(f.Email), nullable(f.Requirements), nullable(f.Benefits),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	l := &models.Listing{}
	err := row.Scan(
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.Salary, &l.Tags,
		&l.Company, &l.Address, &l.City, &l.State, &l.Phone, &l.Email,
		&l.Requirements, &l.Benefits, &l.LogoKey, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresRepository) queryListings(ctx context.Context, query string, args ...any) ([]*models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC, id DESC`
	return r.queryListings(ctx, query)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return l, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, ownerID int64, fields models.ListingFields) (int64, error) {
	query :=
		`INSERT INTO listings (user_id, title, description, salary, tags, company, address, city, state, phone, email, requirements, benefits)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id
		 `

	args := append([]any{ownerID}, fieldArgs(fields)...)

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, fields models.ListingFields) error {
	query :=
		`UPDATE listings
		 SET title = $1, description = $2, salary = $3, tags = $4, company = $5, address = $6, city = $7, state = $8, phone = $9, email = $10, requirements = $11, benefits = $12
		 WHERE id = $13
		 `

	args := append(fieldArgs(fields), id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, keywords, location string) ([]*models.Listing, error) {
	// COALESCE keeps NULL columns from swallowing the wildcard match.
	query := `SELECT ` + listingColumns + ` FROM listings
		 WHERE (COALESCE(title, '') ILIKE $1
		     OR COALESCE(description, '') ILIKE $1
		     OR COALESCE(tags, '') ILIKE $1
		     OR COALESCE(company, '') ILIKE $1)
		   AND (COALESCE(city, '') ILIKE $2
		     OR COALESCE(state, '') ILIKE $2)
		 ORDER BY created_at DESC, id DESC`

	return r.queryListings(ctx, query, "%"+keywords+"%", "%"+location+"%")
}

func (r *PostgresRepository) SetLogoKey(ctx context.Context, id int64, key string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET logo_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
