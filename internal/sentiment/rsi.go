package sentiment

import (
	"errors"
	"math"
)

// RSIPeriod is the lookback used for the relative strength index.
const RSIPeriod = 14

// ErrInsufficientData indicates the close series is too short for an RSI.
var ErrInsufficientData = errors.New("sentiment: not enough closes for RSI")

// RSI computes the 14-period relative strength index for the most recent
// day of a chronological close series (oldest first). Gains and losses are
// averaged with a simple trailing-window mean, not Wilder smoothing. A
// window with zero average loss yields 100.
func RSI(closes []float64) (int, error) {
	if len(closes) < RSIPeriod+1 {
		return 0, ErrInsufficientData
	}

	// Only the trailing RSIPeriod deltas matter for the latest reading.
	window := closes[len(closes)-RSIPeriod-1:]

	var gainSum, lossSum float64
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	avgGain := gainSum / RSIPeriod
	avgLoss := lossSum / RSIPeriod
	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	rsi := 100 - 100/(1+rs)
	return int(math.Round(rsi)), nil
}
