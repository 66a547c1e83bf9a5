package geo

import (
	"context"
	"log/slog"
)

// ResolveRegion returns the geo code for a --region value. Codes and the
// empty string are returned normalized without a lookup. Names go through
// r; when that fails the trimmed input is kept and a warning logged, and
// the upstream decides what to make of it.
func ResolveRegion(ctx context.Context, r Resolver, input string, logger *slog.Logger) string {
	region := NormalizeRegion(input)
	if region == "" || IsRegionCode(region) || r == nil {
		return region
	}

	info, err := r.ResolveCountry(ctx, region)
	if err != nil {
		logger.Warn("could not resolve region, using it as given", "region", region, "error", err)
		return region
	}
	logger.Debug("resolved region", "region", region, "country", info.Name, "geo", info.ISO2)
	return info.ISO2
}
