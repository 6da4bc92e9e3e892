package regrid

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"deedscout-backend/lib/property"
)

var (
	foundMatches = regexp.MustCompile(`(?i)Found (\d+) matches`)
	singleParcel = regexp.MustCompile(`"category":"parcel","path":"([^"]+)"`)
	hitsArray    = regexp.MustCompile(`(?s)var hits\s*=\s*(\[.*?\]);`)
	fragmentPath = regexp.MustCompile(`[?#]t=property&p=([^&]+)`)
)

// matchCount reads the result counter off the search page, 0 when the
// counter is absent.
func matchCount(searchHtml string) int {
	m := foundMatches.FindStringSubmatch(searchHtml)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// singleParcelPath pulls the parcel path out of a single-match search
// page, "" when none is present.
func singleParcelPath(searchHtml string) string {
	m := singleParcel.FindStringSubmatch(searchHtml)
	if m == nil {
		return ""
	}
	return m[1]
}

// parseCandidates reads the embedded hits array off an ambiguous
// search page.
func parseCandidates(searchHtml string) ([]Candidate, error) {
	m := hitsArray.FindStringSubmatch(searchHtml)
	if m == nil {
		return nil, nil
	}

	var hits []struct {
		Path       string `json:"path"`
		Headline   string `json:"headline"`
		Context    string `json:"context"`
		Owner      string `json:"owner"`
		Parcelnumb string `json:"parcelnumb"`
	}
	if err := json.Unmarshal([]byte(m[1]), &hits); err != nil {
		return nil, fmt.Errorf("unexpected hits payload: %w", err)
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, Candidate{
			ParcelId: hit.Parcelnumb,
			Address:  hit.Headline,
			City:     hit.Context,
			Owner:    hit.Owner,
			Url:      publicBaseUrl + hit.Path,
		})
	}
	return candidates, nil
}

// parcelPathFromUrl extracts the parcel path from either a fragment
// url (#t=property&p=/us/...) or a clean parcel url.
func parcelPathFromUrl(rawUrl string) string {
	if m := fragmentPath.FindStringSubmatch(rawUrl); m != nil {
		return m[1]
	}
	idx := strings.Index(rawUrl, "regrid.com")
	if idx < 0 {
		return ""
	}
	path := rawUrl[idx+len("regrid.com"):]
	if cut := strings.IndexAny(path, "?#"); cut >= 0 {
		path = path[:cut]
	}
	if !strings.HasPrefix(path, "/") {
		return ""
	}
	return path
}

// parseDetail turns a parcel detail payload into a record supplement.
func parseDetail(detailJson, browserUrl string) (*property.Supplement, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(detailJson), &root); err != nil {
		return nil, fmt.Errorf("unexpected detail payload: %w", err)
	}
	fields, ok := root["fields"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("detail payload has no fields")
	}

	supplement := &property.Supplement{
		RegridUrl:     browserUrl,
		ParcelId:      stringField(fields, "parcelnumb", "parcelid", "lowparcelid"),
		Address:       detailAddress(root, fields),
		City:          stringField(fields, "scity", "municipality"),
		Zip:           stringField(fields, "szip", "zipcode"),
		Acres:         numberField(fields, "ll_gisacre", "acres"),
		Owner:         stringField(fields, "owner", "eo_owner"),
		Zoning:        stringField(fields, "zoning", "zoning_description"),
		ZoningType:    stringField(fields, "zoning_type", "zoning_subtype", "usedesc"),
		ElevationHigh: stringField(fields, "highest_parcel_elevation"),
		ElevationLow:  stringField(fields, "lowest_parcel_elevation"),
		FloodZone:     stringField(fields, "fema_flood_zone", "fema_flood_zone_subtype", "fema_nri_risk_rating"),
		AssessedValue: assessedValue(fields),
		BirdseyeUrl:   stringField(root, "birdseye"),
	}

	lat := stringField(fields, "lat")
	lon := stringField(fields, "lon")
	if lat != "" && lon != "" {
		supplement.Coordinates = lat + ", " + lon
	}

	return supplement, nil
}

// detailAddress resolves the best address for a parcel: the first
// formatted address, then the address field, then the headline.
func detailAddress(root, fields map[string]any) string {
	if formatted, ok := root["formatted_addresses"].([]any); ok && len(formatted) > 0 {
		if parts, ok := formatted[0].([]any); ok {
			var joined []string
			for _, part := range parts {
				if s, ok := part.(string); ok && strings.TrimSpace(s) != "" {
					joined = append(joined, strings.TrimSpace(s))
				}
			}
			if len(joined) > 0 {
				return strings.Join(joined, " ")
			}
		}
	}
	if addr := stringField(fields, "address"); addr != "" {
		return addr
	}
	return stringField(root, "headline")
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// assessedValue prefers parval when the county reports an assessed or
// market valuation, then falls back to the aggregate value fields.
func assessedValue(fields map[string]any) float64 {
	valType := stringField(fields, "parvaltype")
	if strings.EqualFold(valType, "ASSESSED") || strings.EqualFold(valType, "MARKET") {
		switch v := fields["parval"].(type) {
		case float64:
			return v
		case string:
			clean := nonNumeric.ReplaceAllString(v, "")
			if parsed, err := strconv.ParseFloat(clean, 64); err == nil {
				return parsed
			}
		}
	}
	if v := numberField(fields, "total_value", "ll_val_asmt", "total_parcel_value"); v != nil {
		return *v
	}
	return 0
}

// stringField returns the first non-blank value among keys, formatting
// numbers as needed.
func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// numberField returns the first numeric value among keys, accepting
// number-shaped strings.
func numberField(fields map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case float64:
			value := v
			return &value
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return &parsed
			}
		}
	}
	return nil
}
