package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"pixelgram/internal/model"
)

const userColumns = "id, account_name, passhash, authority, del_flg, created_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(&u.ID, &u.AccountName, &u.Passhash, &u.Authority, &u.DelFlg, &u.CreatedAt)
}

// GetActiveByAccountName fetches a non-banned user by account name.  Used for
// login and for the profile page, both of which must ignore banned accounts.
func (r *UserRepo) GetActiveByAccountName(ctx context.Context, accountName string) (model.User, error) {
	var u model.User
	err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE account_name = ? AND del_flg = 0",
		accountName), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetActiveByID resolves a session's user id to a live user row.  Banned
// users resolve to ErrNotFound so their sessions die on the next request.
func (r *UserRepo) GetActiveByID(ctx context.Context, id int) (model.User, error) {
	var u model.User
	err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? AND del_flg = 0",
		id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// AccountNameTaken reports whether any row, banned or not, already holds the
// account name.
func (r *UserRepo) AccountNameTaken(ctx context.Context, accountName string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE account_name = ?", accountName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a user and returns its generated id.  A duplicate account
// name hitting the unique index maps to ErrAccountTaken, covering the race
// between the AccountNameTaken check and the insert.
func (r *UserRepo) Create(ctx context.Context, accountName, passhash string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (account_name, passhash) VALUES (?, ?)",
		accountName, passhash)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, ErrAccountTaken
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// GetByIDs batch-fetches users for the given ids in one query, keyed by id.
// Banned users are included; the caller decides what to drop.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []int) (map[int]model.User, error) {
	users := make(map[int]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders(len(ids))+")",
		intArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}

// BanCandidates lists active non-admin users, newest first, for the admin
// ban page.
func (r *UserRepo) BanCandidates(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE authority = 0 AND del_flg = 0 ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Ban sets del_flg on every listed user in a single statement.
func (r *UserRepo) Ban(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET del_flg = 1 WHERE id IN ("+placeholders(len(ids))+")",
		intArgs(ids)...)
	return err
}

// ResetFixture restores the benchmark fixture: rows above the seeded id range
// are removed, then the ban flags are rebuilt with every 50th user banned.
func (r *UserRepo) ResetFixture(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM users WHERE id > 1000",
		"UPDATE users SET del_flg = 0",
		"UPDATE users SET del_flg = 1 WHERE id % 50 = 0",
	}
	for _, q := range stmts {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
