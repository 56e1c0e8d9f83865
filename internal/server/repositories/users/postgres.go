package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/dbx"
	"github.com/dmitrijs2005/workboard/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user. The email-uniqueness check and the insert run in
// one transaction: a concurrent registration with the same email surfaces as
// common.ErrorEmailTaken, never as a violated constraint mid-insert.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		var exists bool
		query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
		if err := tx.QueryRowContext(ctx, query, user.Email).Scan(&exists); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists {
			return common.ErrorEmailTaken
		}

		query =
			`INSERT INTO users (name, email, city, state, password)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at
			 `

		if err := tx.QueryRowContext(ctx, query,
			user.Name, user.Email, user.City, user.State, user.Password).Scan(&user.ID, &user.CreatedAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, name, email, city, state, password, created_at FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.City, &user.State, &user.Password, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
