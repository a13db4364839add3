package validator_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgvalidator "github.com/jwalitptl/property-api/pkg/validator"
)

type listingInput struct {
	Slug  string `json:"slug" validate:"required,slug"`
	Rent  int64  `json:"rent_amount" validate:"cents"`
	Color string `json:"color" validate:"omitempty,color"`
}

func newValidate(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, pkgvalidator.Register(v))
	require.NoError(t, pkgvalidator.RegisterString(v, "color", func(s string) bool {
		return s == "red" || s == "blue"
	}))
	return v
}

func TestValidTags(t *testing.T) {
	v := newValidate(t)
	assert.NoError(t, v.Struct(listingInput{Slug: "sunny-loft-2", Rent: 150000, Color: "red"}))
}

func TestDescribe(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(listingInput{Slug: "Sunny Loft", Rent: -1, Color: "green"})
	require.Error(t, err)

	fields := pkgvalidator.Describe(err.(validator.ValidationErrors))
	require.Len(t, fields, 3)

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "must be lowercase words joined by hyphens", byField["slug"])
	assert.Equal(t, "must be a non-negative amount in cents", byField["rent_amount"])
	assert.True(t, strings.HasPrefix(byField["color"], "failed color"))
}

func TestCentsUpperBound(t *testing.T) {
	v := newValidate(t)
	err := v.Struct(listingInput{Slug: "a", Rent: pkgvalidator.MaxCents + 1})
	require.Error(t, err)
}
