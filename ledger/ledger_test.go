package ledger

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s got %s", want, got)
}

func TestApplyBuyScenario(t *testing.T) {
	t.Parallel()

	b := NewBalance(10000, 0.5)
	got, err := ApplyBuy(b, d("0.01"), decimal.NewFromFloat(29876.54))
	require.NoError(t, err)

	assertDecimal(t, "9701.2346", got.Cash)
	assertDecimal(t, "0.51", got.Asset)
}

func TestApplySell(t *testing.T) {
	t.Parallel()

	b := NewBalance(100, 1)
	got, err := ApplySell(b, d("0.25"), d("20000"))
	require.NoError(t, err)

	assertDecimal(t, "5100", got.Cash)
	assertDecimal(t, "0.75", got.Asset)
}

func TestRejections(t *testing.T) {
	t.Parallel()

	b := NewBalance(100, 0.005)
	price := d("30000")

	tests := []struct {
		name string
		side Side
		amt  decimal.Decimal
		px   decimal.Decimal
		want error
	}{
		{"buy over cash", Buy, d("0.01"), price, ErrInsufficientCash},
		{"sell over asset", Sell, d("0.01"), price, ErrInsufficientAsset},
		{"zero amount", Buy, decimal.Zero, price, ErrInvalidAmount},
		{"negative amount", Sell, d("-1"), price, ErrInvalidAmount},
		{"zero price", Buy, d("0.001"), decimal.Zero, ErrInvalidPrice},
		{"unknown side", Side(9), d("0.001"), price, ErrUnknownSide},
		{"huge exponent", Buy, decimal.New(1, 999999999), price, ErrInvalidAmount},
		{"tiny exponent", Sell, decimal.New(1, -999999999), price, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(b, tt.side, tt.amt, tt.px)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrRejected)
			assert.Equal(t, b, got)
		})
	}
}

func TestRejectionIsIdempotent(t *testing.T) {
	t.Parallel()

	b := NewBalance(250, 0)
	for i := 0; i < 10; i++ {
		next, err := ApplyBuy(b, d("1"), d("300"))
		require.ErrorIs(t, err, ErrInsufficientCash)
		assert.Equal(t, b, next)
		b = next
	}
	assertDecimal(t, "250", b.Cash)
	assertDecimal(t, "0", b.Asset)
}

func TestBuyExactlyAllCash(t *testing.T) {
	t.Parallel()

	b := NewBalance(300, 0)
	got, err := ApplyBuy(b, d("0.01"), d("30000"))
	require.NoError(t, err)
	assert.True(t, got.Cash.IsZero())
	assertDecimal(t, "0.01", got.Asset)
}

func TestBalancesNeverNegative(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	b := NewBalance(10000, 0.5)

	for i := 0; i < 5000; i++ {
		price := decimal.NewFromFloat(10000 + rng.Float64()*40000)
		amount := decimal.NewFromFloat(rng.Float64() * 0.2).Round(4)
		side := Buy
		if rng.Intn(2) == 1 {
			side = Sell
		}

		before := b
		next, err := Apply(b, side, amount, price)
		if err != nil {
			require.True(t, errors.Is(err, ErrRejected))
			assert.Equal(t, before, next)
		} else if side == Buy {
			assert.True(t, before.Cash.Sub(amount.Mul(price)).Equal(next.Cash))
			assert.True(t, before.Asset.Add(amount).Equal(next.Asset))
		} else {
			assert.True(t, before.Cash.Add(amount.Mul(price)).Equal(next.Cash))
			assert.True(t, before.Asset.Sub(amount).Equal(next.Asset))
		}
		b = next

		assert.False(t, b.Cash.IsNegative())
		assert.False(t, b.Asset.IsNegative())
	}
}

func TestCanBuyCanSell(t *testing.T) {
	t.Parallel()

	b := NewBalance(1000, 0.02)
	assert.True(t, b.CanBuy(d("0.01"), d("30000")))
	assert.False(t, b.CanBuy(d("0.1"), d("30000")))
	assert.True(t, b.CanSell(d("0.02"), d("30000")))
	assert.False(t, b.CanSell(d("0.021"), d("30000")))
	assert.False(t, b.CanSell(decimal.Zero, d("30000")))
}

func TestValue(t *testing.T) {
	t.Parallel()

	b := NewBalance(10000, 0.5)
	assertDecimal(t, "24938.27", b.Value(decimal.NewFromFloat(29876.54)))
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	got, err := ParseAmount(" 0.01 ")
	require.NoError(t, err)
	assertDecimal(t, "0.01", got)

	got, err = ParseAmount("1e18")
	require.NoError(t, err)
	assertDecimal(t, "1000000000000000000", got)

	long := "0." + strings.Repeat("0", 70) + "1"
	for _, in := range []string{"", "abc", "0", "-0.5", "1e", "NaN",
		"1e999999999", "1e-999999999", "1e9999999", "1e19", "1e-19", long} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
		assert.ErrorIs(t, err, ErrRejected, "input %q", in)
	}
}

func TestSideText(t *testing.T) {
	t.Parallel()

	var s Side
	require.NoError(t, s.UnmarshalText([]byte("SELL")))
	assert.Equal(t, Sell, s)
	assert.Equal(t, "buy", Buy.String())
	assert.Error(t, s.UnmarshalText([]byte("hold")))
}
