package rules

// Award is the score for a riddle solved on the given attempt (1-indexed):
// max(floor, maxPoints-(attempt-1)), never above maxPoints.
func Award(maxPoints, floor, attempt int) int {
	if attempt < 1 {
		attempt = 1
	}
	return clampFloor(maxPoints-(attempt-1), maxPoints, floor)
}

// Remaining is what a riddle is still worth after the given number of wrong attempts
func Remaining(maxPoints, floor, attempts int) int {
	if attempts < 0 {
		attempts = 0
	}
	return clampFloor(maxPoints-attempts, maxPoints, floor)
}

// Exhausted reports whether wrong attempts have used up the whole point budget.
// A riddle with a positive floor never exhausts.
func Exhausted(maxPoints, floor, attempts int) bool {
	return Remaining(maxPoints, floor, attempts) == 0
}

// QuizScore sums the points of the correctly answered questions
func (v Validation) QuizScore(correct []bool) int {
	score := 0
	for i, ok := range correct {
		if ok {
			score += v.QuestionPoints(i)
		}
	}
	return score
}

func clampFloor(points, maxPoints, floor int) int {
	if floor > maxPoints {
		floor = maxPoints
	}
	if floor < 0 {
		floor = 0
	}
	if points < floor {
		return floor
	}
	if points > maxPoints {
		return maxPoints
	}
	return points
}
