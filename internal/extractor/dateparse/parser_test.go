package dateparse

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2019, time.March, 1, 9, 0, 0, 0, time.UTC)
}

type expectedDate struct {
	year, month, day, hour, minute int
}

func TestParser_Parse_Scenarios(t *testing.T) {
	parser := New(WithClock(fixedClock))

	tests := []struct {
		name     string
		input    string
		expected expectedDate
		pass     Pass
	}{
		{
			name:     "explicit date in raw text",
			input:    "your next Master hearing date January 19th 2018 at 3 p.m. for Gymboree",
			expected: expectedDate{2018, 1, 19, 15, 0},
			pass:     PassRaw,
		},
		{
			name:     "homonym pass needed for the hour",
			input:    "twenty third street january seventh at ate a.m.",
			expected: expectedDate{2019, 1, 7, 8, 0},
			pass:     PassHomonym,
		},
		{
			name:     "spoken year and quarter hour",
			input:    "april thirteen two thousand and nineteen at four thirty AM",
			expected: expectedDate{2019, 4, 13, 4, 30},
			pass:     PassNormalized,
		},
		{
			name:     "longest candidate skipped when it does not parse",
			input:    "judge may smith at address involving march and 23rd st on May 10th 2018 at 3 p.m.",
			expected: expectedDate{2018, 5, 10, 15, 0},
			pass:     PassRaw,
		},
		{
			name:     "words ending in am around the date",
			input:    "adam from the program team says march 3rd 2018 at 9 am works",
			expected: expectedDate{2018, 3, 3, 9, 0},
			pass:     PassRaw,
		},
		{
			name:     "twelve am is midnight",
			input:    "june 1st 2020 at 12 a.m.",
			expected: expectedDate{2020, 6, 1, 0, 0},
			pass:     PassRaw,
		},
		{
			name:     "minutes with comma before year",
			input:    "on october 2nd, 2018 at 10:45 pm",
			expected: expectedDate{2018, 10, 2, 22, 45},
			pass:     PassRaw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, pass := parser.Parse(tt.input)

			require.True(t, info.IsSet(), "expected a date for %q", tt.input)
			assert.Equal(t, tt.pass, pass)
			assert.Equal(t, tt.expected.year, info.Year)
			assert.Equal(t, tt.expected.month, info.Month)
			assert.Equal(t, tt.expected.day, info.Day)
			assert.Equal(t, tt.expected.hour, info.Hour)
			assert.Equal(t, tt.expected.minute, info.Minute)

			full := *info.FullDate
			assert.Equal(t, info.Year, full.Year())
			assert.Equal(t, info.Month, int(full.Month()))
			assert.Equal(t, info.Day, full.Day())
			assert.Equal(t, info.Hour, full.Hour())
			assert.Equal(t, info.Minute, full.Minute())
		})
	}
}

func TestParser_Parse_NoDate(t *testing.T) {
	parser := New(WithClock(fixedClock))

	inputs := []string{
		"",
		"please call me back next tuesday at 3 pm",
		"my court date is in august",
		"february 30th 2018 at 9 am",
		"march 3rd at 14 pm",
	}

	for _, input := range inputs {
		info, pass := parser.Parse(input)
		assert.False(t, info.IsSet(), "input %q", input)
		assert.Equal(t, PassNone, pass)
		assert.Equal(t, 0, info.Year)
		assert.Equal(t, 0, info.Minute)
	}
}

func TestParser_Parse_LeapDayWithoutYear(t *testing.T) {
	parser := New(WithClock(fixedClock))

	info, pass := parser.Parse("february 29th at 9 am")
	assert.False(t, info.IsSet())
	assert.Equal(t, PassNone, pass)

	leap := New(WithClock(func() time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) }))
	info, pass = leap.Parse("february 29th at 9 am")
	require.True(t, info.IsSet())
	assert.Equal(t, PassRaw, pass)
	assert.Equal(t, 2020, info.Year)
	assert.Equal(t, 29, info.Day)
}

func TestParser_Parse_ConcurrentCallsAgree(t *testing.T) {
	parser := New(WithClock(fixedClock))
	inputs := []string{
		"april thirteen two thousand and nineteen at four thirty AM",
		"twenty third street january seventh at ate a.m.",
		"your next Master hearing date January 19th 2018 at 3 p.m. for Gymboree",
	}

	want := make([]int, len(inputs))
	for i, in := range inputs {
		info, _ := parser.Parse(in)
		want[i] = info.Day*100 + info.Hour
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, in := range inputs {
				info, _ := parser.Parse(in)
				assert.Equal(t, want[i], info.Day*100+info.Hour)
			}
		}()
	}
	wg.Wait()
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "January 19 2018 at 3 PM", Canonicalize("January 19th 2018 at 3 PM"))
	assert.Equal(t, "april 13 2019 at 4:30 AM", Canonicalize("april 13 , 2019 at 4:30 AM"))
	assert.Equal(t, "may 1 at 2 PM", Canonicalize("  may 1st   at 2 PM "))
}

func TestPass_String(t *testing.T) {
	assert.Equal(t, "raw", PassRaw.String())
	assert.Equal(t, "normalized", PassNormalized.String())
	assert.Equal(t, "homonym", PassHomonym.String())
	assert.Equal(t, "none", PassNone.String())
}
