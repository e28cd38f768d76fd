package domain

// MaxRating is the highest quality score a question can receive.
const MaxRating = 5

var ratingLabels = [...]string{
	"Not rated",
	"Completely wrong",
	"Mostly wrong",
	"Acceptable",
	"Mostly correct",
	"Completely correct",
}

// RatingLabel describes a rating; anything outside 1..5 reads as not rated.
func RatingLabel(rating int) string {
	if rating < 0 || rating > MaxRating {
		return ratingLabels[0]
	}
	return ratingLabels[rating]
}

// Provenance reports "AI" for generated questions and "Human" once edited.
func (q Question) Provenance() string {
	if q.GenByLLM {
		return "AI"
	}
	return "Human"
}
