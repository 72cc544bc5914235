// Package catalog provides an HTTP client for the Epic Beer Search API.
//
// # Overview
//
// This package is the search service collaborator of the results pipeline. It
// owns the transport, URL construction and JSON shape; callers only see
// PreviousSearch and Beer values.
//
// # Architecture
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: SearchKind and the data structures mirroring the API schema
//
// # Client Usage
//
//	client, err := catalog.NewClient(cfg.APIURL,
//		catalog.WithPreviousSearchLimit(30),
//		catalog.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//
//	recent, err := client.FetchPreviousSearches(ctx)
//	beers, err := client.Search(ctx, "porter", catalog.KindBeer)
//
// # API Endpoints
//
//	GET /epicbeersearch/ebs_get_search.py?message_limit=30
//	  → {"beer_list": [{"search", "search_total", "search_type"}]}
//
//	GET /epicbeersearch/ebs_untappd.py?search=<q>&search_type=beer|brewery
//	  → {"beer_list": [{"name", "brewery_name", "image_url", "abv", "style", "rating"}]}
//
// # Error Handling
//
// Every method returns an error for:
//   - Request construction or transport failures
//   - HTTP status >= 400
//   - JSON decoding failures, including unknown search_type values
//
// The client does not retry. Each failure is logged at warn level with the
// X-Request-ID sent to the server and recorded in the optional state.Store.
//
// # Tracing
//
// The transport is wrapped with otelhttp and every call opens a span on the
// global tracer provider, so spans are exported only when telemetry.Init has
// installed an exporter.
package catalog
