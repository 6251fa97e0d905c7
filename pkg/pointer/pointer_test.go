// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shopit/pkg/pointer"
)

func TestFallback(t *testing.T) {
	assert.Equal(t, "new", pointer.Fallback(pointer.To("new"), "old"))
	assert.Equal(t, "old", pointer.Fallback[string](nil, "old"))
	assert.Equal(t, "", pointer.Fallback(pointer.To(""), "old"))
}
