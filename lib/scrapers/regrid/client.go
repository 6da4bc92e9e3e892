package regrid

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"sync"
	"time"

	"deedscout-backend/lib/fetchutil"
	"deedscout-backend/lib/restyutil"
	"deedscout-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/publicsuffix"
)

// publicBaseUrl is what browser-facing links point at regardless of
// where requests actually go.
const publicBaseUrl = "https://app.regrid.com"

var LoginFailed = fmt.Errorf("failed to sign in to regrid")

type Client struct {
	http     *resty.Client
	fetch    *fetchutil.Client
	baseUrl  string
	email    string
	password string

	// SearchDelay spaces out the search and detail requests so they
	// do not read as a burst. Defaults to 300ms.
	SearchDelay time.Duration

	authMu   sync.Mutex
	authDone bool
	authErr  error
}

type ClientOptions struct {
	BaseUrl  string
	Email    string
	Password string
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = publicBaseUrl
	}

	client := resty.New()
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.5")
	client.SetHeader("referer", "https://regrid.com/")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/regrid/http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	return &Client{
		http:        client,
		fetch:       fetchutil.NewClient(client),
		baseUrl:     baseUrl,
		email:       opts.Email,
		password:    opts.Password,
		SearchDelay: 300 * time.Millisecond,
	}, nil
}

// Authenticate performs the sign-in handshake: fetch the login page,
// pull the csrf token out of the form and post the credentials.
func (c *Client) Authenticate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Authenticate")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.baseUrl + "/users/sign_in")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "login page request rejected")
		return fmt.Errorf("login page returned status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		return err
	}

	csrfToken := doc.Find("input[name=authenticity_token]").AttrOr("value", "")
	if csrfToken == "" {
		span.SetStatus(codes.Error, "failed to find csrf token")
		return fmt.Errorf("could not find authenticity token")
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"user[email]":        c.email,
			"user[password]":     c.password,
			"authenticity_token": csrfToken,
		}).
		Post(c.baseUrl + "/users/sign_in")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return LoginFailed
	}

	return nil
}

// ensureAuthenticated signs in once per client lifetime. The outcome
// is latched either way so a bad credential set fails fast instead of
// hammering the login endpoint.
func (c *Client) ensureAuthenticated(ctx context.Context) error {
	c.authMu.Lock()
	defer c.authMu.Unlock()

	if c.authDone {
		return c.authErr
	}
	c.authErr = c.Authenticate(ctx)
	c.authDone = true
	return c.authErr
}
