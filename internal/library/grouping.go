package library

// MonthGroup holds the recordings of one calendar month, in listing order.
type MonthGroup struct {
	Key        string // "YYYY-MM"
	Recordings []Recording
}

// YearGroup holds one year's months, newest month first.
type YearGroup struct {
	Year   string
	Months []MonthGroup
}

// Group buckets a listing by year then year-month. The listing is already
// sorted newest first, so years and months come out in descending order and
// every bucket preserves listing order. The partition is lossless: each
// recording lands in exactly one bucket.
func Group(recs []Recording) []YearGroup {
	var years []YearGroup
	yearIdx := map[string]int{}
	monthIdx := map[string]int{}

	for _, rec := range recs {
		yi, ok := yearIdx[rec.Year]
		if !ok {
			yi = len(years)
			yearIdx[rec.Year] = yi
			years = append(years, YearGroup{Year: rec.Year})
		}

		key := rec.MonthKey()
		mi, ok := monthIdx[key]
		if !ok {
			mi = len(years[yi].Months)
			monthIdx[key] = mi
			years[yi].Months = append(years[yi].Months, MonthGroup{Key: key})
		}

		years[yi].Months[mi].Recordings = append(years[yi].Months[mi].Recordings, rec)
	}

	return years
}
