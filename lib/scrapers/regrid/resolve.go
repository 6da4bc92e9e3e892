package regrid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Resolve turns a parcel id, address or regrid url into a record
// supplement. Queries that are already regrid urls skip the search and
// fetch the parcel directly. Rate limits and transport failures come
// back as errors, ambiguous or empty searches come back as a Result
// with the matching status.
func (c *Client) Resolve(ctx context.Context, query string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "client:Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	if err := c.ensureAuthenticated(ctx); err != nil {
		span.SetStatus(codes.Error, "authentication failed")
		return nil, err
	}

	if parsed, err := url.Parse(query); err == nil &&
		strings.Contains(parsed.Host, "regrid.com") {
		return c.resolveUrl(ctx, query)
	}

	searchUrl := fmt.Sprintf("%s/search?query=%s&context=/us",
		c.baseUrl, url.QueryEscape(query))
	searchHtml, err := c.fetch.Fetch(ctx, http.MethodGet, searchUrl, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return nil, err
	}

	// space out the search and the detail fetch
	if err := c.pause(ctx); err != nil {
		return nil, err
	}

	publicSearchUrl := fmt.Sprintf("%s/search?query=%s&context=/us",
		publicBaseUrl, url.QueryEscape(query))

	count := matchCount(searchHtml)
	span.SetAttributes(attribute.Int("matches", count))

	if count == 0 {
		return &Result{
			Query:     query,
			Status:    StatusNotFound,
			SearchUrl: publicSearchUrl,
		}, nil
	}

	if count > 1 {
		candidates, err := parseCandidates(searchHtml)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse search hits")
			return nil, err
		}
		return &Result{
			Query:      query,
			Status:     StatusMultiple,
			Candidates: rankCandidates(query, candidates),
			SearchUrl:  publicSearchUrl,
		}, nil
	}

	parcelPath := singleParcelPath(searchHtml)
	if parcelPath == "" {
		return &Result{
			Query:     query,
			Status:    StatusNotFound,
			SearchUrl: publicSearchUrl,
		}, nil
	}

	browserUrl := fmt.Sprintf("%s/us#t=property&p=%s", publicBaseUrl, parcelPath)
	return c.fetchParcel(ctx, query, parcelPath, browserUrl)
}

// resolveUrl scrapes a parcel straight from a regrid url, fragment or
// clean form.
func (c *Client) resolveUrl(ctx context.Context, fullUrl string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "client:resolveUrl")
	defer span.End()

	parcelPath := parcelPathFromUrl(fullUrl)
	if parcelPath == "" {
		return &Result{Query: fullUrl, Status: StatusNotFound}, nil
	}
	return c.fetchParcel(ctx, fullUrl, parcelPath, fullUrl)
}

func (c *Client) fetchParcel(ctx context.Context, query, parcelPath, browserUrl string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "client:fetchParcel")
	defer span.End()

	detailUrl := c.baseUrl + parcelPath + ".json"
	detailJson, err := c.fetch.Fetch(ctx, http.MethodGet, detailUrl, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail request failed")
		return nil, err
	}

	supplement, err := parseDetail(detailJson, browserUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse detail payload")
		return nil, err
	}

	return &Result{
		Query:      query,
		Status:     StatusResolved,
		Supplement: supplement,
	}, nil
}

func (c *Client) pause(ctx context.Context) error {
	if c.SearchDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.SearchDelay):
		return nil
	}
}
