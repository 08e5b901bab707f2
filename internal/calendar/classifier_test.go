package calendar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

type failingHolidays struct {
	err   error
	calls int
}

func (f *failingHolidays) Contains(context.Context, time.Time) (bool, error) {
	f.calls++
	return false, f.err
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestClassifier_DayType(t *testing.T) {
	holidays := NewStaticHolidays(
		date(2021, 2, 23),
		date(2021, 1, 16), // Saturday holiday
	)
	classifier := NewClassifier(holidays, nil, zap.NewNop())

	tests := []struct {
		name    string
		date    time.Time
		want    DayType
		working bool
	}{
		{"Monday workday", date(2021, 1, 11), DayTypeWorkday, true},
		{"Saturday weekend", date(2021, 1, 16), DayTypeWeekend, false},
		{"Sunday weekend", date(2021, 1, 17), DayTypeWeekend, false},
		{"Tuesday holiday", date(2021, 2, 23), DayTypeHoliday, false},
		{"Day after holiday", date(2021, 2, 24), DayTypeWorkday, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.DayType(context.Background(), tt.date)
			if err != nil {
				t.Fatalf("DayType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DayType(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}

			working, err := classifier.IsWorkingDay(context.Background(), tt.date)
			if err != nil {
				t.Fatalf("IsWorkingDay() error = %v", err)
			}
			if working != tt.working {
				t.Errorf("IsWorkingDay(%s) = %v, want %v", tt.date.Format("2006-01-02"), working, tt.working)
			}
		})
	}
}

func TestClassifier_CustomWeekend(t *testing.T) {
	classifier := NewClassifier(nil, []time.Weekday{time.Friday, time.Saturday}, zap.NewNop())

	friday, _ := classifier.IsWorkingDay(context.Background(), date(2021, 1, 15))
	sunday, _ := classifier.IsWorkingDay(context.Background(), date(2021, 1, 17))

	if friday {
		t.Error("Friday should be a weekend day")
	}
	if !sunday {
		t.Error("Sunday should be a working day")
	}
}

func TestClassifier_HolidaySourceError(t *testing.T) {
	source := &failingHolidays{err: ErrCalendarUnavailable}
	classifier := NewClassifier(source, nil, zap.NewNop())

	_, err := classifier.IsWorkingDay(context.Background(), date(2021, 1, 11))
	if !errors.Is(err, ErrCalendarUnavailable) {
		t.Errorf("IsWorkingDay() error = %v, want ErrCalendarUnavailable", err)
	}

	// Weekends never reach the holiday source
	source.calls = 0
	working, err := classifier.IsWorkingDay(context.Background(), date(2021, 1, 16))
	if err != nil || working {
		t.Errorf("IsWorkingDay(Saturday) = %v, %v; want false, nil", working, err)
	}
	if source.calls != 0 {
		t.Errorf("holiday source called %d times for a weekend", source.calls)
	}
}

func writeCalendarFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write calendar file: %v", err)
	}
	return path
}

func TestFileCalendar_Load(t *testing.T) {
	path := writeCalendarFile(t, `# Russian holidays 2021
2021-01-01 holiday New Year
2021-02-23 holiday Defender of the Fatherland Day
2021-02-20 shortened
not-a-date holiday
2021-03-08 party
2021-03-08 holiday International Women's Day
`)

	cal := NewFileCalendar(path, zap.NewNop())
	if err := cal.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		date time.Time
		want bool
	}{
		{date(2021, 1, 1), true},
		{date(2021, 2, 23), true},
		{date(2021, 3, 8), true},
		{date(2021, 2, 20), false},
		{date(2021, 2, 24), false},
	}

	for _, tt := range tests {
		got, err := cal.Contains(context.Background(), tt.date)
		if err != nil {
			t.Fatalf("Contains() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}

	note, ok := cal.Note(date(2021, 2, 23))
	if !ok || note != "Defender of the Fatherland Day" {
		t.Errorf("Note() = %q, %v", note, ok)
	}
}

func TestFileCalendar_NotLoaded(t *testing.T) {
	cal := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())

	if err := cal.Load(); err == nil {
		t.Fatal("Load() expected error for missing file")
	}

	_, err := cal.Contains(context.Background(), date(2021, 1, 11))
	if !errors.Is(err, ErrCalendarUnavailable) {
		t.Errorf("Contains() error = %v, want ErrCalendarUnavailable", err)
	}
}

func TestFileCalendar_ReloadKeepsDataOnError(t *testing.T) {
	path := writeCalendarFile(t, "2021-02-23 holiday\n")
	cal := NewFileCalendar(path, zap.NewNop())
	if err := cal.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	cal.Reload()

	got, err := cal.Contains(context.Background(), date(2021, 2, 23))
	if err != nil || !got {
		t.Errorf("Contains() after failed reload = %v, %v; want true, nil", got, err)
	}
}

func TestCompositeCalendar_Fallback(t *testing.T) {
	fallback := NewStaticHolidays(date(2021, 2, 23))

	t.Run("primary ok", func(t *testing.T) {
		cc := NewCompositeCalendar(NewStaticHolidays(), fallback, zap.NewNop())
		got, err := cc.Contains(context.Background(), date(2021, 2, 23))
		if err != nil || got {
			t.Errorf("Contains() = %v, %v; want primary answer false, nil", got, err)
		}
	})

	t.Run("primary fails", func(t *testing.T) {
		cc := NewCompositeCalendar(&failingHolidays{err: errors.New("timeout")}, fallback, zap.NewNop())
		got, err := cc.Contains(context.Background(), date(2021, 2, 23))
		if err != nil || !got {
			t.Errorf("Contains() = %v, %v; want fallback answer true, nil", got, err)
		}
	})

	t.Run("both fail", func(t *testing.T) {
		cc := NewCompositeCalendar(
			&failingHolidays{err: errors.New("timeout")},
			&failingHolidays{err: errors.New("missing file")},
			zap.NewNop())
		_, err := cc.Contains(context.Background(), date(2021, 2, 23))
		if !errors.Is(err, ErrCalendarUnavailable) {
			t.Errorf("Contains() error = %v, want ErrCalendarUnavailable", err)
		}
	})
}
