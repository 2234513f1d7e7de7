package domain

import "time"

// User models a registered customer account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	NationalID   string    `json:"nationalId"`
	BirthDate    time.Time `json:"birthDate"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasRole reports whether the user holds role r.
func (u *User) HasRole(r Role) bool {
	return containsRole(u.Roles, r)
}

// AgeAt returns the number of full years between the user's birth date and t.
func AgeAt(birthDate, t time.Time) int {
	by, bm, bd := birthDate.Date()
	ty, tm, td := t.Date()
	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}
