// Package repository is the data access layer: thin structs around *sql.DB
// issuing parameterized statements against the users, posts and comments
// tables.  Sentinel errors declared here let handlers distinguish failure
// scenarios without inspecting driver errors.  For example, ErrNotFound maps
// to an HTTP 404, while ErrAccountTaken surfaces as a registration flash
// message.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Handlers should
// translate this into an HTTP 404 response or a login failure message.
var ErrNotFound = errors.New("not found")

// ErrAccountTaken is returned when registration is attempted with an account
// name that already exists.
var ErrAccountTaken = errors.New("account name already taken")
