package models

import "github.com/golang-jwt/jwt/v5"

// Token holds a parsed device token. The JWT subject is the device id and
// the audience is the container the device talks to.
type Token struct {
	jwt.RegisteredClaims
	Token        *jwt.Token `json:"-"`
	SignedString string     `json:"-"`
	DeviceID     string     `json:"-"`
	Container    string     `json:"-"`
}
