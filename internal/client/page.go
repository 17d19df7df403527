package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwalitptl/smarthealth/pkg/httputil"
	"github.com/jwalitptl/smarthealth/pkg/listing"
)

// GetPage fetches one page of a collection. A payload without data or meta
// is treated as an empty page.
func GetPage[T any](ctx context.Context, c *Client, path string, params url.Values) (listing.Page[T], error) {
	var body httputil.PageData[T]
	if err := c.Do(ctx, http.MethodGet, path, params, nil, &body); err != nil {
		return listing.Page[T]{}, err
	}

	current, _ := strconv.Atoi(params.Get("page"))
	if body.Meta == nil {
		return listing.Page[T]{Items: []T{}, CurrentPage: current}, nil
	}

	items := body.Data
	if items == nil {
		items = []T{}
	}
	page := listing.Page[T]{
		Items:       items,
		TotalItems:  body.Meta.Total,
		TotalPages:  body.Meta.Pages,
		CurrentPage: body.Meta.Page,
	}
	if page.CurrentPage < 1 {
		page.CurrentPage = current
	}
	return page, nil
}

// ListFunc adapts a collection path and schema into a listing.FetchFunc
func ListFunc[T any](c *Client, path string, schema listing.Schema) listing.FetchFunc[T] {
	return func(ctx context.Context, q listing.Query) (listing.Page[T], error) {
		return GetPage[T](ctx, c, path, listing.BuildParams(q, schema))
	}
}
