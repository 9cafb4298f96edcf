// Package exposure attaches greeks to option contracts and derives
// open-interest weighted exposure columns.
package exposure

import (
	"math/rand/v2"
	"sync"
	"time"

	"options-dashboard/internal/models"
)

// GreekProvider assigns gamma, delta and vanna to contracts. Implementations
// must return a new slice and leave the input untouched.
type GreekProvider interface {
	AssignGreeks(contracts []models.Contract) []models.Contract
}

// RandomGreeks draws each greek uniformly from [0, 1). The values are a
// placeholder signal, not a pricing model.
type RandomGreeks struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGreeks creates a provider seeded from the clock.
func NewRandomGreeks() *RandomGreeks {
	return NewSeededRandomGreeks(uint64(time.Now().UnixNano()))
}

// NewSeededRandomGreeks creates a reproducible provider.
func NewSeededRandomGreeks(seed uint64) *RandomGreeks {
	return &RandomGreeks{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// AssignGreeks implements GreekProvider.
func (r *RandomGreeks) AssignGreeks(contracts []models.Contract) []models.Contract {
	out := make([]models.Contract, len(contracts))
	copy(out, contracts)

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range out {
		out[i].Greeks = models.Greeks{
			Gamma: r.rng.Float64(),
			Delta: r.rng.Float64(),
			Vanna: r.rng.Float64(),
		}
	}
	return out
}

// FixedGreeks assigns the same greeks to every contract.
type FixedGreeks struct {
	Greeks models.Greeks
}

// AssignGreeks implements GreekProvider.
func (f FixedGreeks) AssignGreeks(contracts []models.Contract) []models.Contract {
	out := make([]models.Contract, len(contracts))
	copy(out, contracts)
	for i := range out {
		out[i].Greeks = f.Greeks
	}
	return out
}

// GreekFunc adapts a per-contract function to GreekProvider.
type GreekFunc func(c models.Contract) models.Greeks

// AssignGreeks implements GreekProvider.
func (f GreekFunc) AssignGreeks(contracts []models.Contract) []models.Contract {
	out := make([]models.Contract, len(contracts))
	copy(out, contracts)
	for i := range out {
		out[i].Greeks = f(out[i])
	}
	return out
}
