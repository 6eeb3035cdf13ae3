package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrPackageIsNotConstructed is returned when validating a Package that
// was not created via NewPackage.
var ErrPackageIsNotConstructed = errs.NewValueIsRequiredError(
	"package must be created via NewPackage constructor")

// Package describes the parcel being delivered.
type Package struct {
	weightKg      float64
	category      string
	fragile       bool
	declaredValue float64
	guard         guard.ConstructorGuard
}

// NewPackage creates a Package. Weight must be positive, the declared value
// non-negative, and the category non-empty.
func NewPackage(weightKg float64, category string, fragile bool, declaredValue float64) (Package, error) {
	pack := Package{
		fragile: fragile,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		pack.setWeightKg(weightKg),
		pack.setCategory(category),
		pack.setDeclaredValue(declaredValue),
	); err != nil {
		return Package{}, err
	}

	return pack, nil
}

// Validate checks that the Package was created through NewPackage.
func (p Package) Validate() error {
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

// WeightKg returns the parcel weight in kilograms.
func (p Package) WeightKg() float64 {
	return p.weightKg
}

// Category returns the free-form parcel category (documents, food, ...).
func (p Package) Category() string {
	return p.category
}

// Fragile reports whether the parcel needs careful handling.
func (p Package) Fragile() bool {
	return p.fragile
}

// DeclaredValue returns the customer-declared parcel value.
func (p Package) DeclaredValue() float64 {
	return p.declaredValue
}

func (p *Package) setWeightKg(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg is invalid",
			fmt.Errorf("%v is not greater than 0", weightKg))
	}
	p.weightKg = weightKg
	return nil
}

func (p *Package) setCategory(category string) error {
	if category == "" {
		return errs.NewValueIsRequiredError("category")
	}
	p.category = category
	return nil
}

func (p *Package) setDeclaredValue(declaredValue float64) error {
	if declaredValue < 0 {
		return errs.NewValueIsInvalidErrorWithCause("declaredValue is invalid",
			fmt.Errorf("%v is negative", declaredValue))
	}
	p.declaredValue = declaredValue
	return nil
}
