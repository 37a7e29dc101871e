package valueobject

// Rating буквенная оценка ESG
type Rating string

const (
	RatingA     Rating = "A"
	RatingBPlus Rating = "B+"
	RatingB     Rating = "B"
	RatingC     Rating = "C"
	RatingD     Rating = "D"
)

// Rank порядок оценок: A > B+ > B > C > D
func (r Rating) Rank() int {
	switch r {
	case RatingA:
		return 4
	case RatingBPlus:
		return 3
	case RatingB:
		return 2
	case RatingC:
		return 1
	default:
		return 0
	}
}

// Verdict вердикт по общей оценке RAI
type Verdict string

const (
	VerdictExcellent      Verdict = "EXCELLENT"
	VerdictGood           Verdict = "GOOD"
	VerdictNeedsAttention Verdict = "NEEDS ATTENTION"
)
