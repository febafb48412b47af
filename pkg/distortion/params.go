package distortion

import (
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/region"
)

// validate is a singleton validator instance.
var validate = validator.New()

// DefaultMeasure is used until the user picks a measure.
const DefaultMeasure = "1"

// Params are the user-controlled inputs of a distortion run.
type Params struct {
	K       int    `json:"k" bson:"k" validate:"min=1"`
	Measure string `json:"measure" bson:"measure" validate:"required,max=64,printascii"`
	Region  int    `json:"region" bson:"region" validate:"min=1,max=10"`
}

// DefaultParams returns k=1, the default measure and region 1.
func DefaultParams() Params {
	return Params{K: 1, Measure: DefaultMeasure, Region: region.Initial}
}

// Validate checks the params against their tags.
func (p Params) Validate() error {
	return Validate(p)
}

// Clamp returns p with K forced into [1, maxK]. A maxK below 1 is treated
// as 1.
func (p Params) Clamp(maxK int) Params {
	maxK = max(maxK, 1)
	p.K = min(max(p.K, 1), maxK)
	return p
}

// Validate runs struct-tag validation on v and converts the first failure
// into an INVALID_INPUT error.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "validation failed")
	}
	e := verrs[0]
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return errs.New(errs.ErrCodeInvalidInput, "%s is required", field)
	case "min":
		return errs.New(errs.ErrCodeInvalidInput, "%s must be at least %s", field, e.Param())
	case "max":
		return errs.New(errs.ErrCodeInvalidInput, "%s must not exceed %s", field, e.Param())
	case "oneof":
		return errs.New(errs.ErrCodeInvalidInput, "%s must be one of: %s", field, e.Param())
	default:
		return errs.New(errs.ErrCodeInvalidInput, "%s: validation failed (%s)", field, e.Tag())
	}
}
