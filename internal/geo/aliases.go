package geo

import (
	"context"
	"errors"
	"strings"
)

// ErrUnknownCountry is returned by AliasResolver for names it does not hold.
var ErrUnknownCountry = errors.New("unknown country name")

// commonAliases covers names people type that restcountries resolves badly
// or not at all.
var commonAliases = map[string]CountryInfo{
	"usa":                  {Name: "United States", ISO2: "US"},
	"america":              {Name: "United States", ISO2: "US"},
	"united states":        {Name: "United States", ISO2: "US"},
	"uk":                   {Name: "United Kingdom", ISO2: "GB"},
	"britain":              {Name: "United Kingdom", ISO2: "GB"},
	"great britain":        {Name: "United Kingdom", ISO2: "GB"},
	"england":              {Name: "United Kingdom", ISO2: "GB"},
	"south korea":          {Name: "South Korea", ISO2: "KR"},
	"korea":                {Name: "South Korea", ISO2: "KR"},
	"russia":               {Name: "Russia", ISO2: "RU"},
	"uae":                  {Name: "United Arab Emirates", ISO2: "AE"},
	"czechia":              {Name: "Czechia", ISO2: "CZ"},
	"czech republic":       {Name: "Czechia", ISO2: "CZ"},
	"holland":              {Name: "Netherlands", ISO2: "NL"},
	"the netherlands":      {Name: "Netherlands", ISO2: "NL"},
	"ivory coast":          {Name: "Ivory Coast", ISO2: "CI"},
	"dr congo":             {Name: "DR Congo", ISO2: "CD"},
	"vatican":              {Name: "Vatican City", ISO2: "VA"},
	"taiwan":               {Name: "Taiwan", ISO2: "TW"},
	"hong kong":            {Name: "Hong Kong", ISO2: "HK"},
	"united arab emirates": {Name: "United Arab Emirates", ISO2: "AE"},
}

// AliasResolver answers from a small built-in table.
type AliasResolver struct {
	byKey map[string]CountryInfo
}

func NewAliasResolver() *AliasResolver {
	return &AliasResolver{byKey: commonAliases}
}

func (a *AliasResolver) ResolveCountry(_ context.Context, name string) (CountryInfo, error) {
	key := normalizeKey(name)
	if key == "" {
		return CountryInfo{}, errors.New("empty country name")
	}
	if v, ok := a.byKey[key]; ok {
		return v, nil
	}
	return CountryInfo{}, ErrUnknownCountry
}

// ChainResolver asks each resolver in order and returns the first answer.
// The error of the last resolver is returned when none answers.
type ChainResolver []Resolver

func (c ChainResolver) ResolveCountry(ctx context.Context, name string) (CountryInfo, error) {
	if strings.TrimSpace(name) == "" {
		return CountryInfo{}, errors.New("empty country name")
	}
	err := errors.New("no resolver available")
	for _, r := range c {
		if r == nil {
			continue
		}
		var info CountryInfo
		if info, err = r.ResolveCountry(ctx, name); err == nil {
			return info, nil
		}
	}
	return CountryInfo{}, err
}
