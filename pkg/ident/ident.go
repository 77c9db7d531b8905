// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ident normalizes account identities (usernames, emails) before
// they are stored or compared.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFC so visually identical strings compare equal.
// 3. Lowercases with Unicode-aware rules.
package ident

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical stored form of a username or email.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// A Caser is stateful, so each call gets its own.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
