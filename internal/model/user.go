package model

import "time"

// User represents an application account as stored in the `users` table.
// Each field corresponds to a column in the database.
//
// Fields:
//  ID          – primary key identifier of the user.
//  AccountName – unique account name; also doubles as the password salt.
//  Passhash    – SHA-512 hex digest of "password:salt".
//  Authority   – privilege flag; nonzero grants access to admin endpoints.
//  DelFlg      – soft-delete/ban flag; nonzero users are hidden from listings.
//  CreatedAt   – timestamp of creation.
type User struct {
	ID          int       // users.id
	AccountName string    // users.account_name
	Passhash    string    // users.passhash
	Authority   int       // users.authority
	DelFlg      int       // users.del_flg
	CreatedAt   time.Time // users.created_at
}

// Banned reports whether the user has been soft-deleted.
func (u *User) Banned() bool { return u.DelFlg != 0 }

// Admin reports whether the user may access admin endpoints.
func (u *User) Admin() bool { return u.Authority != 0 }
