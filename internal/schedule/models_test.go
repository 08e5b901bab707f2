package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2021, time.January, 31)
	b := a.AddDays(1)

	assert.Equal(t, "2021-02-01", b.String())
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.Equal(t, 0, a.Compare(NewDate(2021, time.January, 31)))
	assert.Equal(t, -1, NewDate(2020, time.December, 31).Compare(a))
	assert.Equal(t, 1, NewDate(2021, time.March, 1).Compare(b))
	assert.Equal(t, time.Monday, NewDate(2021, time.January, 11).Weekday())
}

func TestDate_JSON(t *testing.T) {
	d := MustParseDate("2021-02-24")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2021-02-24"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"invalid date"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`20210224`), &decoded))
}

func TestLocalTime_Parse(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"10:00", "10:00", false},
		{"9:30", "09:30", false},
		{"23:59", "23:59", false},
		{"24:00", "", true},
		{"10:60", "", true},
		{"ten", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLocalTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeRange_JSONShape(t *testing.T) {
	day := DaySchedule{
		Day: MustParseDate("2021-01-11"),
		TimeRanges: []TimeRange{
			MustTimeRange("10:00", "13:00"),
			MustTimeRange("14:00", "19:00"),
		},
	}

	data, err := json.Marshal(day)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"day": "2021-01-11",
		"timeRanges": [
			{"start": "10:00", "end": "13:00"},
			{"start": "14:00", "end": "19:00"}
		]
	}`, string(data))
}

func TestTimeRange_Invalid(t *testing.T) {
	_, err := NewTimeRange("13:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = NewTimeRange("10:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	assert.Equal(t, 3*time.Hour, MustTimeRange("10:00", "13:00").Duration())
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange(MustParseDate("2021-02-23"), MustParseDate("2021-02-24"))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Days())
	assert.True(t, r.Contains(MustParseDate("2021-02-24")))
	assert.False(t, r.Contains(MustParseDate("2021-02-25")))
	assert.Equal(t, "2021-02-23..2021-02-24", r.String())

	single, err := NewDateRange(MustParseDate("2021-01-11"), MustParseDate("2021-01-11"))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())

	// Crosses the end of a leap-year February
	leap, err := NewDateRange(MustParseDate("2024-02-28"), MustParseDate("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 3, leap.Days())

	// Longer than time.Duration can hold
	long, err := NewDateRange(MustParseDate("2000-01-01"), MustParseDate("2400-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 146098, long.Days())

	widest, err := NewDateRange(MustParseDate("0001-01-01"), MustParseDate("9999-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 3652059, widest.Days())

	_, err = NewDateRange(MustParseDate("2021-02-24"), MustParseDate("2021-02-23"))
	assert.Error(t, err)
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: FieldStartDate, Message: MessageInvalidDate},
		{Field: FieldEndDate, Message: MessageInvalidDate},
	}
	assert.Equal(t, "validation failed: startDate: invalid date; endDate: invalid date", errs.Error())

	got, ok := AsValidationErrors(errs)
	assert.True(t, ok)
	assert.Len(t, got, 2)

	_, ok = AsValidationErrors(ErrInvalidTemplate)
	assert.False(t, ok)
}
