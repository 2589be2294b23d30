package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"pixelgram/internal/model"
)

var userCols = []string{"id", "account_name", "passhash", "authority", "del_flg", "created_at"}

func newUserRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewUserRepo(db), mock, db
}

func userRow(u model.User) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(u.ID, u.AccountName, u.Passhash, u.Authority, u.DelFlg, u.CreatedAt)
}

func TestGetActiveByAccountName_Found(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT .+ FROM users WHERE account_name = \? AND del_flg = 0$`
	mock.ExpectQuery(q).
		WithArgs("alice01").
		WillReturnRows(userRow(model.User{ID: 3, AccountName: "alice01", Passhash: "h", CreatedAt: time.Now()}))

	got, err := repo.GetActiveByAccountName(context.Background(), "alice01")
	if err != nil {
		t.Fatalf("GetActiveByAccountName error: %v", err)
	}
	if got.ID != 3 || got.AccountName != "alice01" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetActiveByAccountName_NotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE account_name = \?`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetActiveByAccountName(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAccountNameTaken(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	q := `^SELECT 1 FROM users WHERE account_name = \?$`
	mock.ExpectQuery(q).
		WithArgs("alice01").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(q).
		WithArgs("newcomer").
		WillReturnError(sql.ErrNoRows)

	taken, err := repo.AccountNameTaken(context.Background(), "alice01")
	if err != nil || !taken {
		t.Fatalf("want taken, got %v %v", taken, err)
	}
	taken, err = repo.AccountNameTaken(context.Background(), "newcomer")
	if err != nil || taken {
		t.Fatalf("want free, got %v %v", taken, err)
	}
}

func TestCreate_ReturnsGeneratedID(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^INSERT INTO users \(account_name, passhash\) VALUES \(\?, \?\)$`).
		WithArgs("alice01", "deadbeef").
		WillReturnResult(sqlmock.NewResult(1001, 1))

	id, err := repo.Create(context.Background(), "alice01", "deadbeef")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 1001 {
		t.Fatalf("want id 1001, got %d", id)
	}
}

func TestCreate_DuplicateAccountName(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^INSERT INTO users`).
		WithArgs("alice01", "deadbeef").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice01' for key 'account_name'"})

	_, err := repo.Create(context.Background(), "alice01", "deadbeef")
	if !errors.Is(err, ErrAccountTaken) {
		t.Fatalf("want ErrAccountTaken, got %v", err)
	}
}

func TestGetByIDs_BindsEveryID(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userCols).
		AddRow(10, "alice01", "h", 0, 0, time.Now()).
		AddRow(11, "bob02", "h", 0, 1, time.Now())
	mock.ExpectQuery(`FROM users WHERE id IN \(\?,\?\)`).
		WithArgs(10, 11).
		WillReturnRows(rows)

	users, err := repo.GetByIDs(context.Background(), []int{10, 11})
	if err != nil {
		t.Fatalf("GetByIDs error: %v", err)
	}
	if len(users) != 2 || users[11].DelFlg != 1 {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestGetByIDs_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	users, err := repo.GetByIDs(context.Background(), nil)
	if err != nil || len(users) != 0 {
		t.Fatalf("want empty map, got %v %v", users, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query: %v", err)
	}
}

func TestBan_SingleStatement(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE users SET del_flg = 1 WHERE id IN \(\?,\?,\?\)$`).
		WithArgs(3, 5, 9).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.Ban(context.Background(), []int{3, 5, 9}); err != nil {
		t.Fatalf("Ban error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBan_NoIDsIsNoop(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	if err := repo.Ban(context.Background(), nil); err != nil {
		t.Fatalf("Ban error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statement: %v", err)
	}
}

func TestResetFixture_StatementOrder(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM users WHERE id > 1000$`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^UPDATE users SET del_flg = 0$`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^UPDATE users SET del_flg = 1 WHERE id % 50 = 0$`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.ResetFixture(context.Background()); err != nil {
		t.Fatalf("ResetFixture error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
