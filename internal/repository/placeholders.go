package repository

import "strings"

// placeholders renders "?,?,...,?" with n slots for an IN clause.  Only the
// placeholder list is built dynamically; every value is still bound.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// intArgs widens a slice of ids into driver arguments.
func intArgs(ids []int) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
