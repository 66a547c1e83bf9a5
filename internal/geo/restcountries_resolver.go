package geo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kwtrends/internal/fetch"
)

const DefaultRestCountriesURL = "https://restcountries.com/v3.1"

type RestCountriesResolver struct {
	Getter  *fetch.Getter
	BaseURL string
}

func NewRestCountriesResolver() *RestCountriesResolver {
	return &RestCountriesResolver{
		Getter:  fetch.NewGetter(&http.Client{Timeout: 12 * time.Second}),
		BaseURL: DefaultRestCountriesURL,
	}
}

type rcCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
}

func (r *RestCountriesResolver) ResolveCountry(ctx context.Context, name string) (CountryInfo, error) {
	q := strings.TrimSpace(name)
	if q == "" {
		return CountryInfo{}, errors.New("empty country name")
	}

	endpoint := strings.TrimRight(r.BaseURL, "/") + "/name/" + url.PathEscape(q)
	body, err := r.Getter.Get(ctx, endpoint, url.Values{"fields": {"name,cca2"}})
	if err != nil {
		var fe *fetch.FetchError
		if errors.As(err, &fe) && fe.Status == http.StatusNotFound {
			return CountryInfo{}, ErrUnknownCountry
		}
		return CountryInfo{}, err
	}

	var results []rcCountry
	if err := fetch.DecodeJSON(body, &results); err != nil {
		return CountryInfo{}, err
	}
	if len(results) == 0 {
		return CountryInfo{}, ErrUnknownCountry
	}

	// exact common name wins, otherwise the first entry
	target := results[0]
	key := normalizeKey(q)
	for _, c := range results {
		if normalizeKey(c.Name.Common) == key {
			target = c
			break
		}
	}

	info := CountryInfo{
		Name: strings.TrimSpace(target.Name.Common),
		ISO2: strings.ToUpper(strings.TrimSpace(target.CCA2)),
	}
	if info.ISO2 == "" {
		return CountryInfo{}, fetch.Empty("iso2 code")
	}
	return info, nil
}
