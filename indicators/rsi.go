package indicators

import "fmt"

// RSI is Wilder's Relative Strength Index. It needs period+1 prices.
type RSI struct {
	period  int
	prev    float64
	count   int
	avgGain float64
	avgLoss float64
}

func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	return r.period + 1
}

func (r *RSI) Reset() {
	*r = RSI{period: r.period}
}

func (r *RSI) Update(price float64) {
	r.count++
	if r.count == 1 {
		r.prev = price
		return
	}

	diff := price - r.prev
	r.prev = price
	gain, loss := 0.0, 0.0
	if diff > 0 {
		gain = diff
	} else {
		loss = -diff
	}

	n := float64(r.period)
	if r.count <= r.period+1 {
		// simple average over the first period changes
		r.avgGain += gain / n
		r.avgLoss += loss / n
		return
	}
	r.avgGain = (r.avgGain*(n-1) + gain) / n
	r.avgLoss = (r.avgLoss*(n-1) + loss) / n
}

func (r *RSI) Ready() bool {
	return r.count >= r.period+1
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		if r.avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
