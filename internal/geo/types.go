// Package geo turns the --region argument into a Google Trends geo code.
// Codes pass through; country names are resolved to ISO2.
package geo

import "context"

type CountryInfo struct {
	Name string
	ISO2 string
}

type Resolver interface {
	ResolveCountry(ctx context.Context, name string) (CountryInfo, error)
}
