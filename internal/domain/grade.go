package domain

// GradeNotApplicable is reported for sessions with no questions.
const GradeNotApplicable = "N/A"

// Percentage returns score/total*100, or 0 when total is 0.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// Grade maps a score to a letter grade. Lower bounds are inclusive.
func Grade(score, total int) string {
	if total == 0 {
		return GradeNotApplicable
	}
	for _, band := range gradeBands {
		// score/total >= min/100, compared in integers
		if score*100 >= band.min*total {
			return band.grade
		}
	}
	return "F"
}

var gradeBands = []struct {
	min   int
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{50, "D"},
}
