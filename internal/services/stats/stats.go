package stats

import "math"

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation of xs (n-1 denominator).
// Returns 0 when fewer than 2 samples.
func StdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for _, x := range xs {
		sum += x
		sum2 += x * x
	}
	fn := float64(n)
	mean := sum / fn
	variance := (sum2 - fn*mean*mean) / (fn - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// SharpePeriodsPerYear is the annualization basis used for every reported
// Sharpe ratio: per-bet returns treated as 252 periods per year.
const SharpePeriodsPerYear = 252

// Sharpe computes the annualized Sharpe ratio of per-bet returns with the
// given annual risk-free rate. One convention, applied everywhere: excess
// return per bet is r - rf/252, annualized by sqrt(252). Returns 0 when
// fewer than 2 samples or when the returns have zero dispersion.
func Sharpe(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	excess := make([]float64, len(returns))
	perPeriodRF := riskFreeRate / SharpePeriodsPerYear
	for i, r := range returns {
		excess[i] = r - perPeriodRF
	}
	sd := StdDev(excess)
	if sd == 0 {
		return 0
	}
	return Mean(excess) / sd * math.Sqrt(SharpePeriodsPerYear)
}

// Streaks returns the longest run of consecutive wins and losses in one
// chronological pass over the outcome sequence.
func Streaks(wins []bool) (longestWin, longestLoss int) {
	curWin, curLoss := 0, 0
	for _, won := range wins {
		if won {
			curWin++
			curLoss = 0
			if curWin > longestWin {
				longestWin = curWin
			}
		} else {
			curLoss++
			curWin = 0
			if curLoss > longestLoss {
				longestLoss = curLoss
			}
		}
	}
	return longestWin, longestLoss
}

// Round2 rounds to 2 decimal places, the precision used in reported metrics.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
