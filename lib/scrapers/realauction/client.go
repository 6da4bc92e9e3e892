package realauction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"deedscout-backend/lib/fetchutil"
	"deedscout-backend/lib/restyutil"
	"deedscout-backend/lib/telemetry"
	"deedscout-backend/lib/timezone"

	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"
)

type Client struct {
	http  *resty.Client
	fetch *fetchutil.Client

	// PageDelay spaces out page requests so the server can commit its
	// session-state change between them. Defaults to 400ms.
	PageDelay time.Duration
	// OnProgress, when set, is called after each page of results.
	OnProgress func(Progress)
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	if opts.BaseUrl != "" {
		client.SetBaseURL(opts.BaseUrl)
	}
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	client.SetHeader("accept", "application/json, text/javascript, */*; q=0.01")
	client.SetHeader("x-requested-with", "XMLHttpRequest")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/realauction/http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	return &Client{
		http:      client,
		fetch:     fetchutil.NewClient(client),
		PageDelay: 400 * time.Millisecond,
	}
}

// GetAuctions crawls every page of the auction calendar at listingUrl
// and returns all records. The crawl stops on the first blank page,
// the first page without item markup, or when the server starts
// repeating itself.
func (c *Client) GetAuctions(ctx context.Context, listingUrl string) ([]AuctionRecord, error) {
	ctx, span := tracer.Start(ctx, "client:GetAuctions")
	defer span.End()

	parsed, err := url.Parse(listingUrl)
	if err != nil {
		span.SetStatus(codes.Error, "invalid listing url")
		return nil, err
	}
	baseDomain := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	auctionDateStr := parsed.Query().Get("AUCTIONDATE")

	auctionDate, ok := timezone.ParseAuctionDate(auctionDateStr)
	if !ok {
		auctionDate = timezone.Now()
	}

	// establish the session and referer before paging
	c.http.SetHeader("referer", listingUrl)
	_, err = c.fetch.Fetch(ctx, http.MethodGet, listingUrl, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to establish session")
		return nil, err
	}

	var allRecords []AuctionRecord
	currentPage := 1
	lastFirstParcelId := ""

	for {
		retHTML, err := c.loadPage(ctx, baseDomain, auctionDateStr, currentPage)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("failed to load page %d", currentPage))
			return allRecords, err
		}

		if strings.TrimSpace(retHTML) == "" || !strings.Contains(retHTML, "AITEM_") {
			break
		}

		pageRecords := ParseListingHTML(retHTML, auctionDate, currentPage)
		if len(pageRecords) == 0 {
			break
		}
		// the server repeats the last page when asked past the end
		if pageRecords[0].ParcelId == lastFirstParcelId {
			break
		}

		allRecords = append(allRecords, pageRecords...)
		lastFirstParcelId = pageRecords[0].ParcelId
		if c.OnProgress != nil {
			c.OnProgress(Progress{Page: currentPage, Records: len(allRecords)})
		}

		currentPage++
		if err := c.sleep(ctx); err != nil {
			return allRecords, err
		}
	}

	return allRecords, nil
}

// loadPage issues the AJAX update call for one calendar page. Page 1
// carries different paging flags than the rest, mirroring what the
// site's own frontend sends.
func (c *Client) loadPage(ctx context.Context, baseDomain, auctionDateStr string, page int) (string, error) {
	pageDir, doR, bypassPage := 1, 0, 0
	if page == 1 {
		pageDir, doR, bypassPage = 0, 1, 1
	}

	ts := time.Now().UnixMilli()
	ajaxUrl := fmt.Sprintf(
		"%s/index.cfm?zaction=AUCTION&Zmethod=UPDATE&FNC=LOAD&AREA=W&PageDir=%d&doR=%d&bypassPage=%d&test=1&AUCTIONDATE=%s&page_num=%d&tx=%d&_=%d",
		baseDomain, pageDir, doR, bypassPage,
		url.QueryEscape(auctionDateStr), page, ts, ts+1)

	body, err := c.fetch.Fetch(ctx, http.MethodGet, ajaxUrl, nil)
	if err != nil {
		return "", err
	}

	var payload struct {
		RetHTML string `json:"retHTML"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return "", fmt.Errorf("unexpected page payload: %w", err)
	}
	return payload.RetHTML, nil
}

func (c *Client) sleep(ctx context.Context) error {
	delay := c.PageDelay
	if jitter, err := random.IntRange(0, 100); err == nil {
		delay += time.Duration(jitter) * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
