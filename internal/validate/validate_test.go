package validate_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"estatehub/internal/validate"
)

type sampleForm struct {
	Price *string `form:"price" validate:"omitempty,float"`
}

func TestStruct(t *testing.T) {
	msg, ok := validate.Struct(sampleForm{Price: lo.ToPtr("250000")})
	assert.True(t, ok)
	assert.Empty(t, msg)

	_, ok = validate.Struct(sampleForm{})
	assert.True(t, ok, "absent price is fine")

	_, ok = validate.Struct(sampleForm{Price: lo.ToPtr("12.5")})
	assert.True(t, ok)

	for _, good := range []string{"2.5e5", " 250000", "250000 ", "-3", ".5", "   "} {
		_, ok = validate.Struct(sampleForm{Price: lo.ToPtr(good)})
		assert.True(t, ok, good)
	}

	msg, ok = validate.Struct(sampleForm{Price: lo.ToPtr("cheap")})
	assert.False(t, ok)
	assert.Equal(t, "price must be a number", msg)

	for _, bad := range []string{"NaN", "Inf", "1e999", "12abc"} {
		_, ok = validate.Struct(sampleForm{Price: lo.ToPtr(bad)})
		assert.False(t, ok, bad)
	}
}

func TestID(t *testing.T) {
	_, ok := validate.ID("5b0e6a0c-3a5f-4c1e-9d36-3f9b2f0a1c2d")
	assert.True(t, ok)
	_, ok = validate.ID("65f1c2a9e4b0a1b2c3d4e5f6")
	assert.True(t, ok)
	_, ok = validate.ID("")
	assert.False(t, ok)
	_, ok = validate.ID("a b")
	assert.False(t, ok)
}

func TestFilename(t *testing.T) {
	for _, good := range []string{"1700000000123.jpg", "1700000000123", "1700000000123.jpeg"} {
		_, ok := validate.Filename(good)
		assert.True(t, ok, good)
	}
	for _, bad := range []string{"", "..", "../secret", "a/b.jpg", "a\\b.jpg", "x.jpg\x00", ".env"} {
		_, ok := validate.Filename(bad)
		assert.False(t, ok, bad)
	}
}
