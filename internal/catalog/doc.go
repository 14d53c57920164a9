// Package catalog provides an HTTP client for the products API.
//
// # Overview
//
// The client reads two endpoints of a dummyjson-compatible API:
//
//	GET {base}/products?limit={N}   list, wrapped in {"products": [...]}
//	GET {base}/products/{id}        a single product object
//
// Field names pass through unchanged (id, title, description, price,
// category, rating, images). Optional fields such as brand, stock and
// discountPercentage are decoded when present.
//
// # Client Usage
//
//	client, err := catalog.NewClient("https://dummyjson.com", catalog.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	items, err := client.FetchCatalog(ctx, catalog.DefaultLimit)
//	item, err := client.FetchItem(ctx, "42")
//
// # Errors
//
// Failed requests return a *Error whose kind matches one of:
//
//   - ErrNetwork: transport failure, an HTTP status >= 400 other than a
//     detail 404, or a 404 from the list endpoint
//   - ErrParse: malformed JSON, an empty list body, a missing "products"
//     field or a negative price
//   - ErrNotFound: a detail 404, or an empty or null detail payload
//
// ParseID, and FetchItem before any request is made, reject ids that are
// not positive integers with an error wrapping ErrInvalidID. All kinds are
// matched with errors.Is:
//
//	if errors.Is(err, catalog.ErrNotFound) { ... }
//
// The client never retries and never caches. Each request carries an
// X-Request-ID header that also appears in the log entry for the call.
package catalog
