// Package models contains plain data records persisted by the server-side
// repositories.
package models

import "time"

// Account is a registered user. Email is stored lowercased and unique.
// PasswordHash is a bcrypt digest and must never be serialized to clients.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	BirthDate    *time.Time
	Timezone     string
	IsActive     bool
	CreatedAt    time.Time
}

// Age returns the account holder's age in whole years at the given moment.
// The second return value is false when no birth date is set.
func (a *Account) Age(now time.Time) (int, bool) {
	if a.BirthDate == nil {
		return 0, false
	}
	bd := *a.BirthDate
	age := now.Year() - bd.Year()
	if now.Month() < bd.Month() || (now.Month() == bd.Month() && now.Day() < bd.Day()) {
		age--
	}
	return age, true
}
