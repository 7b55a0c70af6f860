package models

import "time"

// Operator is a registered human identity. Operators are provisioned out of
// band; this server only ever mutates the token columns.
type Operator struct {
	Username        string     `json:"username" gorm:"primaryKey;size:255"`
	PublicKey       string     `json:"public_key" gorm:"size:255;not null"`
	LoginSecret     string     `json:"-" gorm:"size:255;not null"`
	AuthToken       *string    `json:"-" gorm:"size:255"`
	AuthTokenExpiry *time.Time `json:"-"`
}

// TokenValid reports whether the operator holds a token that is still usable
// at the given instant. Expiry is exclusive: a token is dead at its expiry
// time, not one tick after.
func (o *Operator) TokenValid(now time.Time) bool {
	return o.AuthToken != nil && o.AuthTokenExpiry != nil && now.Before(*o.AuthTokenExpiry)
}
