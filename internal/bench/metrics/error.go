package metrics

import "math"

// SquaredError accumulates prediction errors for RMSE.
type SquaredError struct {
	sum   float64
	count int
}

func (s *SquaredError) Add(predicted, actual float64) {
	d := predicted - actual
	s.sum += d * d
	s.count++
}

func (s *SquaredError) Count() int {
	return s.count
}

// RMSE returns the root mean squared error; ok is false with no predictions.
func (s *SquaredError) RMSE() (float64, bool) {
	if s.count == 0 {
		return 0, false
	}
	return math.Sqrt(s.sum / float64(s.count)), true
}
