package realauction

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"deedscout-backend/lib/timezone"
)

//go:embed counties.json
var countiesJson []byte

// CountyInfo is one county's auction site. Auction is a url template
// whose %s placeholder takes an MM/DD/YYYY date.
type CountyInfo struct {
	Name     string `json:"name"`
	Calendar string `json:"calendar"`
	Auction  string `json:"auction"`
}

var (
	countiesOnce sync.Once
	countyData   map[string][]CountyInfo
	countiesErr  error
)

func loadCounties() (map[string][]CountyInfo, error) {
	countiesOnce.Do(func() {
		countiesErr = json.Unmarshal(countiesJson, &countyData)
	})
	return countyData, countiesErr
}

// States lists the state codes with known auction sites, sorted.
func States() ([]string, error) {
	data, err := loadCounties()
	if err != nil {
		return nil, err
	}
	states := make([]string, 0, len(data))
	for state := range data {
		states = append(states, state)
	}
	sort.Strings(states)
	return states, nil
}

// Counties lists the known counties for a state code, case
// insensitive. Unknown states yield an empty list.
func Counties(state string) ([]CountyInfo, error) {
	data, err := loadCounties()
	if err != nil {
		return nil, err
	}
	return data[strings.ToUpper(state)], nil
}

// AuctionURL builds the listing url for a county's auction on the
// given date.
func AuctionURL(state, county string, date time.Time) (string, error) {
	counties, err := Counties(state)
	if err != nil {
		return "", err
	}
	for _, info := range counties {
		if strings.EqualFold(info.Name, county) {
			return fmt.Sprintf(info.Auction, timezone.FormatAuctionDate(date)), nil
		}
	}
	return "", fmt.Errorf("no auction site known for %s, %s", county, state)
}
