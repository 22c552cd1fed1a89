// Package models defines server-side data models for accounts, sessions and uploads.
package models

import "time"

// User is a registered account. Email is stored lower-cased and is unique.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	FullName     string
	PhoneNumber  string
	Confirmed    bool
	CreatedAt    time.Time
}

// UserInfo is the attribute set returned for an authenticated access token.
type UserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	PhoneNumber   string `json:"phoneNumber"`
	EmailVerified bool   `json:"emailVerified"`
}

// CodeDelivery describes where a (simulated) confirmation code was sent.
type CodeDelivery struct {
	Destination    string `json:"Destination"`
	DeliveryMedium string `json:"DeliveryMedium"`
	AttributeName  string `json:"AttributeName"`
}
