package listings

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/server/models"
)

const listingCols = `id,\s*user_id,\s*title,\s*description,\s*salary,\s*tags,\s*company,\s*address,\s*city,\s*state,\s*phone,\s*email,\s*requirements,\s*benefits,\s*logo_key,\s*created_at`

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func listingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "salary", "tags", "company",
		"address", "city", "state", "phone", "email", "requirements",
		"benefits", "logo_key", "created_at",
	})
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+listings\s*\(user_id,\s*title,.*benefits\)\s*VALUES\s*\(\$1,.*\$13\)\s*RETURNING\s+id\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(1), "Backend Dev", "Build APIs", "90000", nil, nil, nil, "Austin", "TX", nil, "a@b.com", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	fields := models.ListingFields{
		Title:       "Backend Dev",
		Description: "Build APIs",
		Salary:      "90000",
		City:        "Austin",
		State:       "TX",
		Email:       "a@b.com",
	}
	id, err := repo.Insert(context.Background(), 1, fields)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if id != 5 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func TestInsert_EmptyFieldsBecomeNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+listings`).
		WithArgs(int64(2), "T", nil, "S", nil, nil, nil, "C", "ST", nil, "e@x.com", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))

	_, err := repo.Insert(context.Background(), 2, models.ListingFields{
		Title: "T", Salary: "S", City: "C", State: "ST", Email: "e@x.com",
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFindAll_OrderedNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+` + listingCols + `\s+FROM\s+listings\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s*$`

	now := time.Now()
	rows := listingRows().
		AddRow(int64(2), int64(1), "Newer", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, now).
		AddRow(int64(1), int64(1), "Older", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, now.Add(-time.Hour))
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got[0].ID != 2 || *got[0].Title != "Newer" {
		t.Fatalf("unexpected first listing: %+v", got[0])
	}
	if got[1].Description != nil {
		t.Fatalf("NULL column must scan as nil, got %v", *got[1].Description)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+` + listingCols + `\s+FROM\s+listings\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestFindByID_RoundTripNulls(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := listingRows().
		AddRow(int64(3), int64(1), "Backend Dev", "Build APIs", "90000", nil, nil, nil, "Austin", "TX", nil, "a@b.com", nil, nil, nil, time.Now())
	mock.ExpectQuery(`SELECT\s+` + listingCols + `\s+FROM\s+listings\s+WHERE\s+id`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	got, err := repo.FindByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if *got.Title != "Backend Dev" || *got.City != "Austin" {
		t.Fatalf("unexpected listing: %+v", got)
	}
	if got.Tags != nil || got.Company != nil || got.Requirements != nil {
		t.Fatalf("empty fields must round-trip as nil: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+listings\s+SET\s+title\s*=\s*\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 12, models.ListingFields{Title: "x"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+listings\s+SET\s+title\s*=\s*\$1,.*benefits\s*=\s*\$12\s+WHERE\s+id\s*=\s*\$13\s*$`).
		WithArgs("T", "D", "S", nil, nil, nil, "C", "ST", nil, "e@x.com", nil, nil, int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 12, models.ListingFields{
		Title: "T", Description: "D", Salary: "S", City: "C", State: "ST", Email: "e@x.com",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+listings\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(`DELETE\s+FROM\s+listings\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 4); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestSearch_WildcardParams(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+` + listingCols + `\s+FROM\s+listings\s+WHERE\s+\(COALESCE\(title,.*ILIKE\s+\$1.*COALESCE\(state,.*ILIKE\s+\$2\)\s*ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs("%%", "%%").
		WillReturnRows(listingRows().
			AddRow(int64(1), int64(1), "Any", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, time.Now()))

	got, err := repo.Search(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(got))
	}
}

func TestSearch_KeywordAndLocationPatterns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+` + listingCols + `\s+FROM\s+listings\s+WHERE`).
		WithArgs("%engineer%", "%Austin%").
		WillReturnRows(listingRows())

	got, err := repo.Search(context.Background(), "engineer", "Austin")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no listings, got %d", len(got))
	}
}

func TestSetLogoKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+listings\s+SET\s+logo_key\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs("logos/2024/abc", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetLogoKey(context.Background(), 9, "logos/2024/abc"); err != nil {
		t.Fatalf("SetLogoKey error: %v", err)
	}
}
