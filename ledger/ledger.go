// Package ledger holds the simulated cash and asset balances and applies
// buy/sell operations under solvency checks.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrRejected is the single failure class of the ledger. Every validation
// error below wraps it, so callers can test errors.Is(err, ErrRejected).
var ErrRejected = errors.New("operation rejected")

var (
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be a positive number", ErrRejected)
	ErrInvalidPrice      = fmt.Errorf("%w: price must be positive", ErrRejected)
	ErrInsufficientCash  = fmt.Errorf("%w: insufficient cash", ErrRejected)
	ErrInsufficientAsset = fmt.Errorf("%w: insufficient asset", ErrRejected)
	ErrUnknownSide       = fmt.Errorf("%w: unknown side", ErrRejected)
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Balance is the session's holdings. Both fields stay >= 0.
type Balance struct {
	Cash  decimal.Decimal `json:"cash"`
	Asset decimal.Decimal `json:"asset"`
}

func NewBalance(cash, asset float64) Balance {
	return Balance{
		Cash:  decimal.NewFromFloat(cash),
		Asset: decimal.NewFromFloat(asset),
	}
}

// Value is cash plus the asset marked at price.
func (b Balance) Value(price decimal.Decimal) decimal.Decimal {
	return b.Cash.Add(b.Asset.Mul(price))
}

func (b Balance) String() string {
	return fmt.Sprintf("cash=%s asset=%s", b.Cash.String(), b.Asset.String())
}

// CanBuy reports whether ApplyBuy would succeed.
func (b Balance) CanBuy(amount, price decimal.Decimal) bool {
	return validate(amount, price) == nil && amount.Mul(price).LessThanOrEqual(b.Cash)
}

// CanSell reports whether ApplySell would succeed.
func (b Balance) CanSell(amount, price decimal.Decimal) bool {
	return validate(amount, price) == nil && amount.LessThanOrEqual(b.Asset)
}

// ApplyBuy spends amount*price cash for amount asset. On rejection the
// balance is returned unchanged along with the reason.
func ApplyBuy(b Balance, amount, price decimal.Decimal) (Balance, error) {
	if err := validate(amount, price); err != nil {
		return b, err
	}
	cost := amount.Mul(price)
	if cost.GreaterThan(b.Cash) {
		return b, ErrInsufficientCash
	}
	return Balance{
		Cash:  b.Cash.Sub(cost),
		Asset: b.Asset.Add(amount),
	}, nil
}

// ApplySell converts amount asset into amount*price cash.
func ApplySell(b Balance, amount, price decimal.Decimal) (Balance, error) {
	if err := validate(amount, price); err != nil {
		return b, err
	}
	if amount.GreaterThan(b.Asset) {
		return b, ErrInsufficientAsset
	}
	return Balance{
		Cash:  b.Cash.Add(amount.Mul(price)),
		Asset: b.Asset.Sub(amount),
	}, nil
}

func Apply(b Balance, side Side, amount, price decimal.Decimal) (Balance, error) {
	switch side {
	case Buy:
		return ApplyBuy(b, amount, price)
	case Sell:
		return ApplySell(b, amount, price)
	default:
		return b, ErrUnknownSide
	}
}

// MaxExponent bounds the decimal exponent of an amount. Arithmetic on
// decimals rescales to the smaller exponent, so an amount like 1e999999999
// would expand into a billion-digit integer.
const MaxExponent = 18

// maxAmountLen bounds the length of amount input.
const maxAmountLen = 64

func validate(amount, price decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if e := amount.Exponent(); e < -MaxExponent || e > MaxExponent {
		return fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// ParseAmount parses user input. Anything that is not a positive number is
// ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if len(s) > maxAmountLen {
		return decimal.Zero, fmt.Errorf("%w: too long", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if e := d.Exponent(); e < -MaxExponent || e > MaxExponent {
		return decimal.Zero, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return d, nil
}
