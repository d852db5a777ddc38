package indicators

import "fmt"

// MACD tracks the fast-slow EMA line and its EMA signal line. Value returns
// the histogram (line - signal).
type MACD struct {
	fast, slow, sig int
	fastEMA         *ExponentialMA
	slowEMA         *ExponentialMA
	signalEMA       *ExponentialMA
	line            float64
}

func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fast:      fast,
		slow:      slow,
		sig:       signal,
		fastEMA:   NewEMA(fast),
		slowEMA:   NewEMA(slow),
		signalEMA: NewEMA(signal),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fast, m.slow, m.sig)
}

func (m *MACD) Warmup() int {
	return m.slow + m.sig - 1
}

func (m *MACD) Reset() {
	m.fastEMA.Reset()
	m.slowEMA.Reset()
	m.signalEMA.Reset()
	m.line = 0
}

func (m *MACD) Update(price float64) {
	m.fastEMA.Update(price)
	m.slowEMA.Update(price)
	if !m.slowEMA.Ready() {
		return
	}
	m.line = m.fastEMA.Value() - m.slowEMA.Value()
	m.signalEMA.Update(m.line)
}

func (m *MACD) Ready() bool {
	return m.signalEMA.Ready()
}

func (m *MACD) Line() float64 {
	return m.line
}

func (m *MACD) Signal() float64 {
	return m.signalEMA.Value()
}

func (m *MACD) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.line - m.signalEMA.Value()
}
