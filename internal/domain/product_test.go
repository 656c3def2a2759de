package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sizedProduct() *Product {
	override := "$69"
	return &Product{
		ID:           "1",
		Handle:       "neon-drip-tee",
		Name:         "NEON DRIP TEE",
		DefaultPrice: "$65",
		SizeOptions: []SizeOption{
			{Size: "S"},
			{Size: "M"},
			{Size: "L", Price: &override},
		},
	}
}

// ============================================================================
// Product.PriceFor Tests
// ============================================================================

func TestPriceFor_DefaultWhenNoSize(t *testing.T) {
	p := sizedProduct()
	assert.Equal(t, "$65", p.PriceFor(nil))
}

func TestPriceFor_DefaultWhenEmptySize(t *testing.T) {
	p := sizedProduct()
	assert.Equal(t, "$65", p.PriceFor(strPtr("")))
}

func TestPriceFor_SizeWithoutOverride(t *testing.T) {
	p := sizedProduct()
	assert.Equal(t, "$65", p.PriceFor(strPtr("S")))
}

func TestPriceFor_SizeWithOverride(t *testing.T) {
	p := sizedProduct()
	assert.Equal(t, "$69", p.PriceFor(strPtr("L")))
}

func TestPriceFor_UnknownSizeFallsBack(t *testing.T) {
	p := sizedProduct()
	assert.Equal(t, "$65", p.PriceFor(strPtr("XXL")))
}

func TestPriceFor_UnsizedProduct(t *testing.T) {
	p := &Product{Handle: "stencil-cap", DefaultPrice: "$45"}
	assert.Equal(t, "$45", p.PriceFor(strPtr("L")))
}

// ============================================================================
// Product.HasSizes / SizeOption Tests
// ============================================================================

func TestHasSizes(t *testing.T) {
	assert.True(t, sizedProduct().HasSizes())
	assert.False(t, (&Product{Handle: "stencil-cap"}).HasSizes())
}

func TestSizeOption_Found(t *testing.T) {
	p := sizedProduct()
	opt := p.SizeOption("L")
	if assert.NotNil(t, opt) {
		assert.Equal(t, "L", opt.Size)
	}
}

func TestSizeOption_NotFound(t *testing.T) {
	assert.Nil(t, sizedProduct().SizeOption("XS"))
}
