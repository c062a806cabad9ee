package geoip

import (
	"context"

	"github.com/goliatone/go-estimate/pkg/form"
)

// Patcher is the subset of the estimate form the adapter writes to.
type Patcher interface {
	Patch(form.FieldPatch)
}

// Prefill applies cached or freshly fetched geolocation data to the target.
//
// The sequence is cache-check-then-fetch: a cache hit patches the company and
// location fields synchronously with zero network calls. On a miss, one GET
// is issued; success stores the raw body verbatim for future initializations
// and patches the location fields. Failure patches the location fields to the
// sentinel, leaves the company name untouched, caches nothing, logs the
// classified message, and returns the error for callers that want to react
// further. The form is usable throughout; callers typically run this in its
// own goroutine.
func (c *Client) Prefill(ctx context.Context, target Patcher) error {
	if target == nil {
		return nil
	}

	if raw, ok := c.opts.Store.Retrieve(c.opts.CacheKey); ok {
		if info, err := decodeInfo(raw); err == nil {
			target.Patch(form.FieldPatch{
				CompanyName: &info.Org,
				CountryName: &info.CountryName,
				City:        &info.City,
				ZipCode:     &info.Postal,
			})
			return nil
		}
		// Corrupt cache entries fall through to a fresh lookup.
	}

	raw, err := c.fetch(ctx)
	if err == nil {
		var info Info
		if info, err = decodeInfo(raw); err == nil {
			if storeErr := c.opts.Store.Store(c.opts.CacheKey, raw); storeErr != nil {
				// Failing to cache is not a lookup failure.
				c.opts.Logger.Printf("cache write failed: %v", storeErr)
			}
			patch := form.FieldPatch{
				CountryName: &info.CountryName,
				City:        &info.City,
				ZipCode:     &info.Postal,
			}
			if c.opts.OrgPrefill == OrgPrefillResponse {
				patch.CompanyName = &info.Org
			}
			target.Patch(patch)
			return nil
		}
	}

	c.opts.Logger.Printf("%v", err)
	sentinel := c.opts.Sentinel
	target.Patch(form.FieldPatch{
		CountryName: &sentinel,
		City:        &sentinel,
		ZipCode:     &sentinel,
	})
	return err
}
