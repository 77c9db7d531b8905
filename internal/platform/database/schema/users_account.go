// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table, column, collection and field the stores touch.

Repositories build queries from these values instead of string literals, so a
rename is a one-line change here.
*/
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	Password     string
	RefreshToken string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	FullName:     "fullname",
	Avatar:       "avatar",
	CoverImage:   "coverimage",
	Password:     "passwordhash",
	RefreshToken: "refreshtoken",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.Avatar, t.CoverImage,
		t.Password, t.RefreshToken, t.CreatedAt, t.UpdatedAt,
	}
}
