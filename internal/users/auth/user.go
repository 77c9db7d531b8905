// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and the account lifecycle:
registration, login, logout, refresh-token rotation, and password changes.

# Architecture

  - Service: Orchestrates business logic against repository interfaces.
  - Repository: Document (MongoDB) and relational (PostgreSQL) implementations.
  - Security: bcrypt password hashes and HS256 access/refresh JWTs from [sec].
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the vidtube platform.
//
// The secret fields carry `json:"-"`, so a User can be written to a response
// as-is without leaking the password hash or the refresh token reference.
type User struct {
	ID           string    `json:"id"           bson:"_id"`
	Username     string    `json:"username"     bson:"username"`
	Email        string    `json:"email"        bson:"email"`
	FullName     string    `json:"fullname"     bson:"fullname"`
	Avatar       string    `json:"avatar"       bson:"avatar"`
	CoverImage   string    `json:"coverImage"   bson:"coverImage"`
	WatchHistory []string  `json:"watchHistory" bson:"watchHistory"`
	PasswordHash string    `json:"-"            bson:"password"`
	RefreshToken *string   `json:"-"            bson:"refreshToken"`
	CreatedAt    time.Time `json:"createdAt"    bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"    bson:"updatedAt"`
}

// Session is the result of a login or a refresh rotation.
type Session struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// # Field Identifiers

// Request field names used in validation errors.
const (
	FieldFullName     = "fullname"
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldAvatar       = "avatar"
	FieldCoverImage   = "coverImage"
	FieldOldPassword  = "oldPassword"
	FieldNewPassword  = "newPassword"
	FieldToken        = "token"
	FieldRefreshToken = "refreshToken"
)
