// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm normalizes user-supplied identifiers before they are stored
// or compared.
//
// # Usage
//
// Two visually identical emails typed on different keyboards may differ in their
// Unicode composition. Normalizing to NFC before storage keeps the unique email
// index meaningful.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Email trims, NFC-normalizes and lower-cases an email address.
//
// A cases.Caser must not be shared between goroutines; one is built per call.
func Email(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// Name trims, NFC-normalizes and collapses inner whitespace of a display name.
// Letter case is preserved.
func Name(s string) string {
	return strings.Join(strings.FieldsFunc(norm.NFC.String(s), unicode.IsSpace), " ")
}
