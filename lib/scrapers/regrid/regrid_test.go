package regrid

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"deedscout-backend/lib/fetchutil"

	"github.com/stretchr/testify/require"
)

const loginPage = `<html><body><form action="/users/sign_in" method="post">
<input type="hidden" name="authenticity_token" value="csrf-abc123" />
<input name="user[email]" /><input name="user[password]" />
</form></body></html>`

const detailJson = `{
	"headline": "123 Main St",
	"birdseye": "https://regrid.com/birdseye/1.jpg",
	"formatted_addresses": [["123 MAIN ST", "GAINESVILLE, FL 32601"]],
	"fields": {
		"parcelnumb": "12345-000-000",
		"scity": "GAINESVILLE",
		"szip": "32601",
		"ll_gisacre": 0.25,
		"owner": "SMITH JOHN",
		"zoning": "RSF-1",
		"usedesc": "SINGLE FAMILY",
		"lat": "29.691032",
		"lon": "-82.353909",
		"highest_parcel_elevation": "55 ft",
		"lowest_parcel_elevation": "51 ft",
		"fema_flood_zone": "X",
		"parvaltype": "ASSESSED",
		"parval": 45000
	}
}`

type fakeRegrid struct {
	server     *httptest.Server
	loginGets  atomic.Int64
	loginPosts atomic.Int64

	rejectLogin bool
	searchHtml  string
	rateLimit   bool
}

func newFakeRegrid(t *testing.T) *fakeRegrid {
	t.Helper()
	f := &fakeRegrid{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/sign_in", func(w http.ResponseWriter, r *http.Request) {
		f.loginGets.Add(1)
		w.Write([]byte(loginPage))
	})
	mux.HandleFunc("POST /users/sign_in", func(w http.ResponseWriter, r *http.Request) {
		f.loginPosts.Add(1)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "csrf-abc123", r.PostFormValue("authenticity_token"))
		if f.rejectLogin ||
			r.PostFormValue("user[email]") != "scout@example.com" ||
			r.PostFormValue("user[password]") != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("welcome"))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if f.rateLimit {
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(f.searchHtml))
	})
	mux.HandleFunc("/us/fl/alachua/gainesville/12345.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailJson))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRegrid) client(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(ClientOptions{
		BaseUrl:  f.server.URL,
		Email:    "scout@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	client.SearchDelay = time.Millisecond
	return client
}

func TestResolveSingleMatch(t *testing.T) {
	f := newFakeRegrid(t)
	f.searchHtml = `<html>Found 1 matches
		<script>{"category":"parcel","path":"/us/fl/alachua/gainesville/12345"}</script></html>`

	result, err := f.client(t).Resolve(context.Background(), "12345-000-000")
	require.NoError(t, err)
	require.Equal(t, StatusResolved, result.Status)

	s := result.Supplement
	require.NotNil(t, s)
	require.Equal(t, "12345-000-000", s.ParcelId)
	require.Equal(t, "123 MAIN ST GAINESVILLE, FL 32601", s.Address)
	require.Equal(t, "GAINESVILLE", s.City)
	require.Equal(t, "32601", s.Zip)
	require.NotNil(t, s.Acres)
	require.Equal(t, 0.25, *s.Acres)
	require.Equal(t, "SMITH JOHN", s.Owner)
	require.Equal(t, "RSF-1", s.Zoning)
	require.Equal(t, "SINGLE FAMILY", s.ZoningType)
	require.Equal(t, "29.691032, -82.353909", s.Coordinates)
	require.Equal(t, "55 ft", s.ElevationHigh)
	require.Equal(t, "51 ft", s.ElevationLow)
	require.Equal(t, "X", s.FloodZone)
	require.Equal(t, 45000.0, s.AssessedValue)
	require.Equal(t, "https://regrid.com/birdseye/1.jpg", s.BirdseyeUrl)
	require.Equal(t,
		"https://app.regrid.com/us#t=property&p=/us/fl/alachua/gainesville/12345",
		s.RegridUrl)

	require.Equal(t, int64(1), f.loginGets.Load())
	require.Equal(t, int64(1), f.loginPosts.Load())
}

func TestResolveNotFound(t *testing.T) {
	f := newFakeRegrid(t)
	f.searchHtml = `<html>No results for your search</html>`

	result, err := f.client(t).Resolve(context.Background(), "99999")
	require.NoError(t, err)
	require.Equal(t, StatusNotFound, result.Status)
	require.Nil(t, result.Supplement)
	require.Contains(t, result.SearchUrl, "https://app.regrid.com/search?query=99999")
}

func TestResolveMultipleRanksCandidates(t *testing.T) {
	f := newFakeRegrid(t)
	f.searchHtml = `<html>Found 5 matches
		<script>var hits = [
			{"path":"/us/fl/a/1","headline":"500 ELM DR","context":"Ocala, FL","owner":"A","parcelnumb":"111"},
			{"path":"/us/fl/a/2","headline":"123 MAIN ST","context":"Gainesville, FL","owner":"B","parcelnumb":"222"},
			{"path":"/us/fl/a/3","headline":"125 MAIN ST","context":"Gainesville, FL","owner":"C","parcelnumb":"333"},
			{"path":"/us/fl/a/4","headline":"123 MAIN AVE","context":"Ocala, FL","owner":"D","parcelnumb":"444"},
			{"path":"/us/fl/a/5","headline":"77 PINE LOOP","context":"Tampa, FL","owner":"E","parcelnumb":"555"}
		];</script></html>`

	result, err := f.client(t).Resolve(context.Background(), "123 MAIN ST")
	require.NoError(t, err)
	require.Equal(t, StatusMultiple, result.Status)
	require.Len(t, result.Candidates, 5)

	best := result.Candidates[0]
	require.Equal(t, "123 MAIN ST", best.Address)
	require.Equal(t, "222", best.ParcelId)
	require.Equal(t, "https://app.regrid.com/us/fl/a/2", best.Url)
	require.Equal(t, 1.0, best.Score)
	require.GreaterOrEqual(t, result.Candidates[1].Score, result.Candidates[2].Score)
}

func TestResolveRateLimited(t *testing.T) {
	f := newFakeRegrid(t)
	f.rateLimit = true

	client := f.client(t)
	_, err := client.Resolve(context.Background(), "12345")
	require.Error(t, err)
	require.True(t, fetchutil.IsRateLimited(err))

	var rle *fetchutil.RateLimitError
	require.ErrorAs(t, err, &rle)
	require.Equal(t, time.Minute, rle.RetryAfter)
}

func TestAuthenticateFailureLatches(t *testing.T) {
	f := newFakeRegrid(t)
	f.rejectLogin = true

	client := f.client(t)
	for i := 0; i < 3; i++ {
		_, err := client.Resolve(context.Background(), "12345")
		require.ErrorIs(t, err, LoginFailed)
	}
	// the failed sign-in is latched, not retried per query
	require.Equal(t, int64(1), f.loginPosts.Load())
}

func TestAuthenticateOncePerClient(t *testing.T) {
	f := newFakeRegrid(t)
	f.searchHtml = `<html>No results</html>`

	client := f.client(t)
	for i := 0; i < 3; i++ {
		_, err := client.Resolve(context.Background(), fmt.Sprintf("query-%d", i))
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), f.loginGets.Load())
	require.Equal(t, int64(1), f.loginPosts.Load())
}

func TestParcelPathFromUrl(t *testing.T) {
	require.Equal(t, "/us/fl/bay/panama-city/48002",
		parcelPathFromUrl("https://app.regrid.com/us#t=property&p=/us/fl/bay/panama-city/48002"))
	require.Equal(t, "/us/fl/bay/panama-city/48002",
		parcelPathFromUrl("https://app.regrid.com/us/fl/bay/panama-city/48002"))
	require.Equal(t, "/us/fl/bay/panama-city/48002",
		parcelPathFromUrl("https://app.regrid.com/us?t=property&p=/us/fl/bay/panama-city/48002&x=1"))
	require.Equal(t, "", parcelPathFromUrl("https://example.com/whatever"))
}

func TestParseDetailAssessedValueFallbacks(t *testing.T) {
	// parval honored on market valuations, currency strings included
	s, err := parseDetail(`{"fields":{"parvaltype":"market","parval":"$80,000"}}`, "u")
	require.NoError(t, err)
	require.Equal(t, 80000.0, s.AssessedValue)

	// other valuation types fall through to the aggregate fields
	s, err = parseDetail(`{"fields":{"parvaltype":"LAND","parval":123,"total_value":60000}}`, "u")
	require.NoError(t, err)
	require.Equal(t, 60000.0, s.AssessedValue)

	s, err = parseDetail(`{"fields":{}}`, "u")
	require.NoError(t, err)
	require.Equal(t, 0.0, s.AssessedValue)

	_, err = parseDetail(`{"headline":"no fields"}`, "u")
	require.Error(t, err)
}

func TestParseDetailAddressPriority(t *testing.T) {
	s, err := parseDetail(`{
		"headline": "Headline Rd",
		"fields": {"address": "456 FIELD AVE"}
	}`, "u")
	require.NoError(t, err)
	require.Equal(t, "456 FIELD AVE", s.Address)

	s, err = parseDetail(`{"headline": "Headline Rd", "fields": {}}`, "u")
	require.NoError(t, err)
	require.Equal(t, "Headline Rd", s.Address)
}
