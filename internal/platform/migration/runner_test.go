// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN rewrites postgres schemes for the pgx5 driver.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"postgres://u:p@db:5432/shopit", "pgx5://u:p@db:5432/shopit"},
		{"postgresql://u:p@db/shopit?sslmode=disable", "pgx5://u:p@db/shopit?sslmode=disable"},
		{"pgx5://db/shopit", "pgx5://db/shopit"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertToPgx5DSN(tt.input))
		})
	}
}
