package table

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-dashboard/internal/errors"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tbl := New(3)
	require.NoError(t, tbl.Add("strike", []any{100.0, 105.0, 110.0}))
	require.NoError(t, tbl.Add("volume", []any{int64(5), nil, int64(9)}))
	require.NoError(t, tbl.Add("Ticker", []any{"AAPL", "AAPL", "AAPL"}))
	return tbl
}

func TestAddRejectsWrongLength(t *testing.T) {
	tbl := New(2)
	err := tbl.Add("x", []any{1.0})
	assert.Error(t, err)
}

func TestAddReplacesInPlace(t *testing.T) {
	tbl := sample(t)
	require.NoError(t, tbl.Add("strike", []any{1.0, 2.0, 3.0}))
	assert.Equal(t, []string{"strike", "volume", "Ticker"}, tbl.Names())
	assert.Equal(t, 2.0, tbl.Value(1, "strike"))
}

func TestDropIgnoresMissingColumns(t *testing.T) {
	tbl := sample(t)
	out := tbl.Drop("volume", "currency")
	assert.Equal(t, []string{"strike", "Ticker"}, out.Names())
	assert.Equal(t, []string{"strike", "volume", "Ticker"}, tbl.Names(), "receiver untouched")
}

func TestMoveFirst(t *testing.T) {
	out := sample(t).MoveFirst("Ticker")
	assert.Equal(t, []string{"Ticker", "strike", "volume"}, out.Names())
	assert.Equal(t, "AAPL", out.Value(0, "Ticker"))

	same := sample(t).MoveFirst("missing")
	assert.Equal(t, []string{"strike", "volume", "Ticker"}, same.Names())
}

func TestConcatSchemaMismatch(t *testing.T) {
	a := sample(t)
	b := a.Drop("volume")
	_, err := Concat(a, b)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSchemaMismatch))
}

func TestConcatKeepsOrder(t *testing.T) {
	a := sample(t)
	b := sample(t).MoveFirst("Ticker").MoveFirst("strike")
	require.Equal(t, []string{"strike", "Ticker", "volume"}, b.Names())

	out, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, a.Names(), out.Names())
	assert.Equal(t, 6, out.Len())
	assert.Equal(t, 100.0, out.Value(3, "strike"))
	assert.Equal(t, "AAPL", out.Value(3, "Ticker"))
	assert.Equal(t, int64(9), out.Value(5, "volume"))
	assert.Nil(t, out.Value(4, "volume"))
}

func TestConcatRenamedColumn(t *testing.T) {
	a := sample(t)
	b := New(3)
	require.NoError(t, b.Add("strike", []any{1.0, 2.0, 3.0}))
	require.NoError(t, b.Add("openInterest", []any{nil, nil, nil}))
	require.NoError(t, b.Add("Ticker", []any{"SPY", "SPY", "SPY"}))

	_, err := Concat(a, b)
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestSortByDescendingNullsLast(t *testing.T) {
	out, err := sample(t).SortBy("volume", true)
	require.NoError(t, err)
	vols, _ := out.Column("volume")
	assert.Equal(t, []any{int64(9), int64(5), nil}, vols)

	asc, err := sample(t).SortBy("volume", false)
	require.NoError(t, err)
	vols, _ = asc.Column("volume")
	assert.Equal(t, []any{int64(5), int64(9), nil}, vols)
}

func TestHeadAndFilter(t *testing.T) {
	tbl := sample(t)
	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 3, tbl.Head(10).Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())

	big := tbl.Filter(func(r int) bool {
		f, _ := Float(tbl.Value(r, "strike"))
		return f > 100
	})
	assert.Equal(t, 2, big.Len())
}

func TestRoundNumeric(t *testing.T) {
	tbl := New(3)
	require.NoError(t, tbl.Add("iv", []any{12.3456, nil, -0.005}))
	require.NoError(t, tbl.Add("oi", []any{int64(7), int64(8), nil}))
	require.NoError(t, tbl.Add("mixed", []any{1.234, "x", nil}))

	out := tbl.RoundNumeric(2)
	iv, _ := out.Column("iv")
	assert.Equal(t, []any{12.35, nil, -0.01}, iv)
	oi, _ := out.Column("oi")
	assert.Equal(t, []any{int64(7), int64(8), nil}, oi)
	mixed, _ := out.Column("mixed")
	assert.Equal(t, 1.234, mixed[0], "non-numeric columns are left alone")

	assert.True(t, out.RoundNumeric(2).Equal(out))
}

func TestRoundNumericNonFinite(t *testing.T) {
	tbl := New(3)
	require.NoError(t, tbl.Add("impliedVolatility", []any{math.NaN(), math.Inf(1), 0.4567}))

	out := tbl.RoundNumeric(2)
	iv, _ := out.Column("impliedVolatility")
	assert.Equal(t, []any{nil, nil, 0.46}, iv)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["impliedVolatility"],"rows":[[null],[null],[0.46]]}`, string(data))
}

func TestDistinct(t *testing.T) {
	tbl := New(4)
	require.NoError(t, tbl.Add("type", []any{"Call", "Call", "Put", nil}))
	assert.Equal(t, []any{"Call", "Put"}, tbl.Distinct("type"))
}

func TestMarshalJSON(t *testing.T) {
	tbl := sample(t).Head(1)
	data, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["strike","volume","Ticker"],"rows":[[100,5,"AAPL"]]}`, string(data))
}
