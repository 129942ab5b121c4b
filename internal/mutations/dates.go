package mutations

import "time"

const dateLayout = "2006-01-02"

const daysPerYear = 365.25

// parseDate parses "YYYY-MM-DD" strictly. It returns false for anything that
// is not a real calendar date, including normalized overflow such as Feb 30.
func parseDate(s string) (time.Time, bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return time.Time{}, false
	}
	for i, c := range []byte(s) {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
	}
	y := int(s[0]-'0')*1000 + int(s[1]-'0')*100 + int(s[2]-'0')*10 + int(s[3]-'0')
	m := time.Month(int(s[5]-'0')*10 + int(s[6]-'0'))
	d := int(s[8]-'0')*10 + int(s[9]-'0')
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// Reject overflow like Feb 30, which time.Date normalizes silently.
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}

func daysBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// serviceYears is the whole-day distance from employment start to a reference
// date in years, floored at zero when the reference precedes employment.
func serviceYears(employmentStart, reference time.Time) float64 {
	y := daysBetween(employmentStart, reference) / daysPerYear
	if y < 0 {
		return 0
	}
	return y
}
