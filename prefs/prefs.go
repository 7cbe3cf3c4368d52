package prefs

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned when a preference code is not part of the option tables.
var (
	ErrUnknownCountry = errors.New("unknown country code")
	ErrUnknownSphere  = errors.New("unknown sphere code")
	ErrUnknownFormat  = errors.New("unknown format code")
)

// Country selects the job platform. The empty value means "unset", which is
// not the same as the explicit Any.
type Country string

const (
	CountryUA   Country = "UA"
	CountryINTL Country = "INTL"
	CountryEU   Country = "EU"
	CountryAny  Country = "ANY"
)

// Sphere is the professional area of a vacancy.
type Sphere string

const (
	SphereQA       Sphere = "QA"
	SphereBackend  Sphere = "BACKEND"
	SphereFrontend Sphere = "FRONTEND"
	SphereData     Sphere = "DATA"
	SphereDevOps   Sphere = "DEVOPS"
	SpherePMBA     Sphere = "PMBA"
	SphereDesign   Sphere = "DESIGN"
	SphereAny      Sphere = "ANY"
)

// Format is the wanted work arrangement.
type Format string

const (
	FormatRemote   Format = "REMOTE"
	FormatOffice   Format = "OFFICE"
	FormatPartTime Format = "PARTTIME"
	FormatContract Format = "CONTRACT"
	FormatAny      Format = "ANY"
)

// Prefs holds the three optional selections collected by the wizard. Each
// field is independently optional.
type Prefs struct {
	Country Country `json:"country,omitempty"`
	Sphere  Sphere  `json:"sphere,omitempty"`
	Format  Format  `json:"format,omitempty"`
}

// UsesPrimary reports whether searches for this country go to the feed
// source first. Unset counts as a primary country.
func (c Country) UsesPrimary() bool {
	switch c {
	case CountryUA, CountryINTL, CountryAny, "":
		return true
	}
	return false
}

// WantsRelaxedFormat reports whether the format is one of the keyword-only
// formats that the listings page tags unreliably.
func (f Format) WantsRelaxedFormat() bool {
	return f == FormatPartTime || f == FormatContract
}

// Validate checks that the sphere and format are known codes. The country is
// free-form: codes outside the wizard's options denote another platform.
func (p Prefs) Validate() error {
	if p.Sphere != "" {
		if _, ok := Spheres.Label(string(p.Sphere)); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSphere, p.Sphere)
		}
	}
	if p.Format != "" {
		if _, ok := Formats.Label(string(p.Format)); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, p.Format)
		}
	}
	return nil
}

// Normalize upper-cases and trims every code.
func (p Prefs) Normalize() Prefs {
	return Prefs{
		Country: Country(normalizeCode(string(p.Country))),
		Sphere:  Sphere(normalizeCode(string(p.Sphere))),
		Format:  Format(normalizeCode(string(p.Format))),
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
