package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseAuctionDate(t *testing.T) {
	cases := []struct {
		input  string
		expect time.Time
		ok     bool
	}{
		{
			input:  "12/02/2025",
			expect: time.Date(2025, time.December, 2, 0, 0, 0, 0, Location),
			ok:     true,
		},
		{
			input:  "1/7/2026",
			expect: time.Date(2026, time.January, 7, 0, 0, 0, 0, Location),
			ok:     true,
		},
		{
			input:  "2025-12-02",
			expect: time.Date(2025, time.December, 2, 0, 0, 0, 0, Location),
			ok:     true,
		},
		{
			input: "next tuesday",
			ok:    false,
		},
		{
			input: "",
			ok:    false,
		},
	}

	for _, test := range cases {
		parsed, ok := ParseAuctionDate(test.input)
		require.Equal(t, test.ok, ok, test.input)
		if test.ok {
			require.Equal(t, test.expect, parsed, test.input)
		}
	}
}

func TestFormatAuctionDate(t *testing.T) {
	date := time.Date(2025, time.December, 2, 0, 0, 0, 0, Location)
	require.Equal(t, "12/02/2025", FormatAuctionDate(date))

	roundtrip, ok := ParseAuctionDate(FormatAuctionDate(date))
	require.True(t, ok)
	require.Equal(t, date, roundtrip)

	// a midnight date in any zone keeps its calendar day
	require.Equal(t, "09/03/2026",
		FormatAuctionDate(time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)))
}
