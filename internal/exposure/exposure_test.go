package exposure

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-dashboard/internal/chain"
	"options-dashboard/internal/models"
)

func contracts(root string, typ string, strikes []float64, oi []*int64) []models.Contract {
	out := make([]models.Contract, len(strikes))
	for i, k := range strikes {
		out[i] = models.Contract{
			ContractSymbol: fmt.Sprintf("%s240621%s%08d", root, typ, int(k*1000)),
			Strike:         k,
			OpenInterest:   oi[i],
			Volume:         models.Int64(int64(i + 1)),
			Currency:       "USD",
			ContractSize:   "REGULAR",
		}
	}
	return out
}

func TestSynthesizeFixedGreeks(t *testing.T) {
	calls := contracts("AAPL", "C", []float64{150, 155}, []*int64{models.Int64(100), nil})
	puts := contracts("AAPL", "P", []float64{145}, []*int64{models.Int64(40)})

	s := NewSynthesizer(FixedGreeks{Greeks: models.Greeks{Gamma: 0.5, Delta: -0.25, Vanna: 2}})
	out, err := s.Synthesize(calls, puts)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	assert.Equal(t, 50.0, out.Value(0, ColGammaExposure))
	assert.Equal(t, -25.0, out.Value(0, ColDeltaExposure))
	assert.Equal(t, 200.0, out.Value(0, ColVannaExposure))
	assert.Nil(t, out.Value(1, ColGammaExposure), "missing open interest propagates")
	assert.Nil(t, out.Value(1, ColVannaExposure))
	assert.Equal(t, 20.0, out.Value(2, ColGammaExposure))

	types, _ := out.Column(chain.ColType)
	assert.Equal(t, []any{"Call", "Call", "Put"}, types)

	// inputs untouched
	assert.Equal(t, models.Greeks{}, calls[0].Greeks)
}

func TestSynthesizeEmptySides(t *testing.T) {
	s := NewSynthesizer(FixedGreeks{})
	out, err := s.Synthesize(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.True(t, out.Has(ColGammaExposure))
}

func TestRandomGreeksSeeded(t *testing.T) {
	in := contracts("SPY", "C", []float64{500, 505, 510}, []*int64{nil, nil, nil})
	a := NewSeededRandomGreeks(42).AssignGreeks(in)
	b := NewSeededRandomGreeks(42).AssignGreeks(in)
	assert.Equal(t, a, b)
	for _, c := range a {
		for _, g := range []float64{c.Greeks.Gamma, c.Greeks.Delta, c.Greeks.Vanna} {
			assert.GreaterOrEqual(t, g, 0.0)
			assert.Less(t, g, 1.0)
		}
	}
}

func TestGreekFunc(t *testing.T) {
	f := GreekFunc(func(c models.Contract) models.Greeks {
		return models.Greeks{Gamma: c.Strike / 100}
	})
	out := f.AssignGreeks(contracts("QQQ", "P", []float64{400}, []*int64{models.Int64(1)}))
	assert.Equal(t, 4.0, out[0].Greeks.Gamma)
}

type sideInput struct {
	OI    []int64
	HasOI []bool
}

func sideGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(sideInput{}), map[string]gopter.Gen{
		"OI":    gen.SliceOfN(8, gen.Int64Range(0, 50000)),
		"HasOI": gen.SliceOfN(8, gen.Bool()),
	})
}

func build(root, typ string, in sideInput, n int) []models.Contract {
	strikes := make([]float64, n)
	oi := make([]*int64, n)
	for i := 0; i < n; i++ {
		strikes[i] = float64(100 + i*5)
		if i < len(in.OI) && i < len(in.HasOI) && in.HasOI[i] {
			oi[i] = models.Int64(in.OI[i])
		}
	}
	return contracts(root, typ, strikes, oi)
}

func TestProperty_SynthesizeShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	s := NewSynthesizer(NewRandomGreeks())

	properties.Property("calls precede puts and type has two values", prop.ForAll(
		func(cs, ps sideInput, nc, np int) bool {
			calls := build("AAPL", "C", cs, nc)
			puts := build("AAPL", "P", ps, np)
			out, err := s.Synthesize(calls, puts)
			if err != nil || out.Len() != nc+np {
				return false
			}
			for i := 0; i < out.Len(); i++ {
				want := "Put"
				if i < nc {
					want = "Call"
				}
				if out.Value(i, chain.ColType) != want {
					return false
				}
				// each side keeps its original order
				pos := i
				if i >= nc {
					pos = i - nc
				}
				if out.Value(i, chain.ColStrike) != float64(100+pos*5) {
					return false
				}
			}
			return len(out.Distinct(chain.ColType)) == 2
		},
		sideGen(), sideGen(), gen.IntRange(1, 8), gen.IntRange(1, 8),
	))

	properties.Property("exposure equals greek times open interest, null iff OI null", prop.ForAll(
		func(cs, ps sideInput) bool {
			out, err := s.Synthesize(build("MSFT", "C", cs, 8), build("MSFT", "P", ps, 8))
			if err != nil {
				return false
			}
			pairs := [][2]string{
				{ColGamma, ColGammaExposure},
				{ColDelta, ColDeltaExposure},
				{ColVanna, ColVannaExposure},
			}
			for i := 0; i < out.Len(); i++ {
				oi := out.Value(i, chain.ColOpenInterest)
				for _, p := range pairs {
					exp := out.Value(i, p[1])
					if oi == nil {
						if exp != nil {
							return false
						}
						continue
					}
					g := out.Value(i, p[0]).(float64)
					want := g * float64(oi.(int64))
					if math.Abs(exp.(float64)-want) > 1e-9 {
						return false
					}
				}
			}
			return true
		},
		sideGen(), sideGen(),
	))

	properties.TestingRun(t)
}

func TestBarSeries(t *testing.T) {
	calls := contracts("AAPL", "C", []float64{150, 155}, []*int64{models.Int64(10), nil})
	puts := contracts("AAPL", "P", []float64{145}, []*int64{models.Int64(30)})
	s := NewSynthesizer(FixedGreeks{Greeks: models.Greeks{Gamma: 1, Delta: -1}})
	tbl, err := s.Synthesize(calls, puts)
	require.NoError(t, err)

	bars, err := BarSeries(tbl, ColGammaExposure)
	require.NoError(t, err)
	assert.Equal(t, "Gamma Exposure", bars.Label)
	assert.Equal(t, []BarPoint{{Strike: 150, Value: 10}}, bars.Calls)
	assert.Equal(t, []BarPoint{{Strike: 145, Value: -30}}, bars.Puts)
	assert.Equal(t, 30.0, bars.TickBound)

	deltaBars, err := BarSeries(tbl, ColDeltaExposure)
	require.NoError(t, err)
	assert.Equal(t, 30.0, deltaBars.TickBound, "all-negative values bound by the largest magnitude")

	_, err = BarSeries(tbl, "nope")
	assert.Error(t, err)
}

func TestGEXPoints(t *testing.T) {
	calls := contracts("AAPL", "C", []float64{150}, []*int64{models.Int64(20)})
	puts := contracts("AAPL", "P", []float64{145}, []*int64{nil})
	tbl, err := NewSynthesizer(FixedGreeks{Greeks: models.Greeks{Gamma: 0.5}}).Synthesize(calls, puts)
	require.NoError(t, err)

	points, err := GEXPoints(tbl)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1000.0, points[0].GEX)
	assert.Equal(t, 1.0, points[0].Size)
	assert.Equal(t, models.OptionTypeCall, points[0].Type)
}
