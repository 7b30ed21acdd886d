package analytics

import "github.com/trezcool/masomo/core/school"

// Percentage is the mark's score out of 100. A non-positive max score gives 0.
func Percentage(mark school.Mark) float64 {
	if mark.MaxScore <= 0 {
		return 0
	}
	return mark.Score / mark.MaxScore * 100
}

// PercentageMean is the mean of the marks' percentages; 0 when there are none.
func PercentageMean(marks []school.Mark) float64 {
	if len(marks) == 0 {
		return 0
	}
	var total float64
	for _, mark := range marks {
		total += Percentage(mark)
	}
	return total / float64(len(marks))
}

func GradeLetter(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}

func PerformanceLabel(avg float64) string {
	switch {
	case avg >= 90:
		return "Excellent"
	case avg >= 80:
		return "Very Good"
	case avg >= 70:
		return "Good"
	case avg >= 60:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}
