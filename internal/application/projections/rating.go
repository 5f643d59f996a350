package projections

import (
	"strconv"

	"campuspulse/internal/domain/event"
)

// NoRatingsLabel is shown in place of an average when an event has no reviews.
const NoRatingsLabel = "No ratings yet"

// Rating summarises an event's reviews.
type Rating struct {
	Average float64
	Count   int
	Has     bool
}

// AverageRating averages review ratings.
// POST: Has is false and Average is 0 when there are no reviews; never NaN
func AverageRating(reviews []event.Review) Rating {
	if len(reviews) == 0 {
		return Rating{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return Rating{Average: float64(sum) / float64(len(reviews)), Count: len(reviews), Has: true}
}

// Display formats the average to one decimal place.
func (r Rating) Display() string {
	if !r.Has {
		return NoRatingsLabel
	}
	return strconv.FormatFloat(r.Average, 'f', 1, 64)
}
