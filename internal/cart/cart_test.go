package cart

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoree/storefront/internal/catalog"
)

var (
	aguacate = catalog.Product{SKU: "AGU-01", Name: "Aguacate Hass", UnitPrice: 89.50, Unit: "kg"}
	jitomate = catalog.Product{SKU: "JIT-01", Name: "Jitomate Saladet", UnitPrice: 24.00, Unit: "kg"}
)

func TestAddAccumulatesByStep(t *testing.T) {
	c := New(0.25)

	c.Add(aguacate, 0.25)
	c.Add(aguacate, 0.25)
	c.Add(aguacate, 0.25)

	assert.Equal(t, 0.75, c.Quantity("AGU-01"))
	require.Len(t, c.Lines(), 1)
}

func TestAddNewLineUsesStepAsInitialQuantity(t *testing.T) {
	c := New(1)
	c.Add(jitomate, 0.5)
	assert.Equal(t, 0.5, c.Quantity("JIT-01"))
}

func TestDecrementRemovesLineAtZero(t *testing.T) {
	c := New(0.25)
	c.Add(aguacate, 0.5)

	c.Decrement("AGU-01", 0.25)
	assert.Equal(t, 0.25, c.Quantity("AGU-01"))

	c.Decrement("AGU-01", 0.25)
	assert.Equal(t, 0.0, c.Quantity("AGU-01"))
	assert.Empty(t, c.Lines())
}

func TestDecrementBelowZeroRemovesLine(t *testing.T) {
	c := New(1)
	c.Add(aguacate, 1)

	// over-decrement must remove, never leave a negative quantity
	c.Decrement("AGU-01", 5)
	assert.Empty(t, c.Lines())
	assert.Equal(t, 0.0, c.Quantity("AGU-01"))
}

func TestDecrementUnknownSKUIsNoOp(t *testing.T) {
	c := New(1)
	c.Add(aguacate, 1)
	c.Decrement("NOPE", 1)
	assert.Equal(t, 1.0, c.Quantity("AGU-01"))
}

func TestInvalidStepFallsBackToDefault(t *testing.T) {
	c := New(0.25)

	c.Add(aguacate, math.NaN())
	assert.Equal(t, 0.25, c.Quantity("AGU-01"))

	c.Add(aguacate, -3)
	assert.Equal(t, 0.5, c.Quantity("AGU-01"))

	c.Add(aguacate, math.Inf(1))
	assert.Equal(t, 0.75, c.Quantity("AGU-01"))
}

func TestQuantityRoundingAvoidsFloatDrift(t *testing.T) {
	c := New(0.1)
	for i := 0; i < 10; i++ {
		c.Add(aguacate, 0.1)
	}
	assert.Equal(t, 1.0, c.Quantity("AGU-01"))
}

func TestTotalRecomputedFromLines(t *testing.T) {
	c := New(0.25)
	c.Add(aguacate, 0.5) // 44.75
	c.Add(jitomate, 2)   // 48.00

	assert.Equal(t, 92.75, c.Total())

	c.Remove("JIT-01")
	assert.Equal(t, 44.75, c.Total())

	c.Clear()
	assert.Equal(t, 0.0, c.Total())
	assert.True(t, c.Empty())
}

func TestReplaceDropsNonPositiveLines(t *testing.T) {
	c := New(0.25)
	c.Add(aguacate, 1)

	c.Replace([]Line{
		{SKU: "JIT-01", Name: "Jitomate Saladet", UnitPrice: 24, Quantity: 1.5},
		{SKU: "BAD-01", Name: "Fantasma", UnitPrice: 10, Quantity: 0},
	})

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 1.5, c.Quantity("JIT-01"))
	assert.Equal(t, 36.0, c.Total())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New(1)
	c.Add(aguacate, 1)

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1.0, c.Quantity("AGU-01"))
}

func TestNewInvalidDefaultStepFallsBack(t *testing.T) {
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		c := New(bad)
		c.Add(aguacate, 0)
		assert.Equal(t, DefaultStep, c.Quantity("AGU-01"))
	}
}

func TestConcurrentAddsFromOneSession(t *testing.T) {
	s := NewStore(0.25)

	// two tabs hammering the same session cookie
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Get("sess-shared").Add(aguacate, 0.25)
			}
		}()
	}
	wg.Wait()

	c := s.Get("sess-shared")
	assert.Equal(t, 50.0, c.Quantity("AGU-01"))
	require.Len(t, c.Lines(), 1)
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	s := NewStore(0.25)

	s.Get("sess-a").Add(aguacate, 1)
	s.Get("sess-b").Add(jitomate, 2)

	assert.Equal(t, 1.0, s.Get("sess-a").Quantity("AGU-01"))
	assert.Equal(t, 0.0, s.Get("sess-a").Quantity("JIT-01"))
	assert.Equal(t, 2.0, s.Get("sess-b").Quantity("JIT-01"))

	s.Drop("sess-a")
	assert.True(t, s.Get("sess-a").Empty())
}
