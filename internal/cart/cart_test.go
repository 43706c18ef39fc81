package cart

import (
	"testing"

	"github.com/ndavydov/gopos/internal/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rice = billing.Product{ID: 1, Name: "Rice", Price: decimal.NewFromInt(50), Stock: 10}
var sugar = billing.Product{ID: 2, Name: "Sugar", Price: decimal.NewFromInt(40), Stock: 5}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func Test_Cart_AddOrUpdate(t *testing.T) {
	testCases := []struct {
		name        string
		quantity    string
		expectError error
	}{
		{name: "Success - quantity within stock", quantity: "3", expectError: nil},
		{name: "Success - fractional quantity", quantity: "1.5", expectError: nil},
		{name: "Success - quantity equals stock", quantity: "10", expectError: nil},
		{name: "Error - zero quantity", quantity: "0", expectError: ErrInvalidQuantity},
		{name: "Error - negative quantity", quantity: "-2", expectError: ErrInvalidQuantity},
		{name: "Error - quantity above stock", quantity: "11", expectError: ErrStockExceeded},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			c := New()
			// when
			err := c.AddOrUpdate(rice, dec(t, tc.quantity))
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Equal(t, 0, c.Len())
				assert.True(t, c.Total().IsZero())
				return
			}
			require.NoError(t, err)
			require.Equal(t, 1, c.Len())
			line, found := c.Find(rice.ID)
			require.True(t, found)
			assert.Equal(t, "Rice", line.Name)
			assert.True(t, line.Price.Equal(rice.Price))
			assert.True(t, line.Quantity.Equal(dec(t, tc.quantity)))
		})
	}
}

func Test_Cart_AddOrUpdate_OverwritesQuantity(t *testing.T) {
	// given
	c := New()
	require.NoError(t, c.AddOrUpdate(rice, dec(t, "3")))
	assert.Equal(t, "150", c.Total().String())

	// when: a second add for the same product replaces the quantity
	require.NoError(t, c.AddOrUpdate(rice, dec(t, "5")))

	// then: one line, quantity 5, total 250 (not 400)
	require.Equal(t, 1, c.Len())
	line, _ := c.Find(rice.ID)
	assert.Equal(t, "5", line.Quantity.String())
	assert.Equal(t, "250", c.Total().String())

	// and a failed update leaves the line untouched
	err := c.AddOrUpdate(rice, dec(t, "11"))
	assert.ErrorIs(t, err, ErrStockExceeded)
	line, _ = c.Find(rice.ID)
	assert.Equal(t, "5", line.Quantity.String())
	assert.Equal(t, "250", c.Total().String())
}

func Test_Cart_AddOrUpdate_SnapshotsPrice(t *testing.T) {
	// given
	c := New()
	require.NoError(t, c.AddOrUpdate(rice, dec(t, "2")))

	// when: the catalog record is repriced and the quantity edited again
	repriced := rice
	repriced.Price = decimal.NewFromInt(60)
	require.NoError(t, c.AddOrUpdate(repriced, dec(t, "3")))

	// then: the line keeps the price locked in when it was first added
	line, _ := c.Find(rice.ID)
	assert.Equal(t, "50", line.Price.String())
	assert.Equal(t, "150", c.Total().String())
}

func Test_Cart_Remove(t *testing.T) {
	// given
	c := New()
	require.NoError(t, c.AddOrUpdate(rice, dec(t, "3")))
	require.NoError(t, c.AddOrUpdate(sugar, dec(t, "2")))

	// when
	c.Remove(rice.ID)

	// then
	assert.Equal(t, 1, c.Len())
	_, found := c.Find(rice.ID)
	assert.False(t, found)
	assert.Equal(t, "80", c.Total().String())

	// removing an absent id is a no-op
	c.Remove(999)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "80", c.Total().String())

	c.Remove(sugar.ID)
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Total().IsZero())
}

func Test_Cart_Total(t *testing.T) {
	// given
	c := New()
	assert.True(t, c.Total().IsZero())

	// when
	require.NoError(t, c.AddOrUpdate(rice, dec(t, "1.5")))
	require.NoError(t, c.AddOrUpdate(sugar, dec(t, "2")))

	// then: 1.5×50 + 2×40
	assert.Equal(t, "155", c.Total().String())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Total().IsZero())
}

func Test_Cart_Lines_InsertionOrder(t *testing.T) {
	// given
	c := New()
	require.NoError(t, c.AddOrUpdate(sugar, dec(t, "1")))
	require.NoError(t, c.AddOrUpdate(rice, dec(t, "1")))

	// when: updating the first product must not move it
	require.NoError(t, c.AddOrUpdate(sugar, dec(t, "3")))

	// then
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, sugar.ID, lines[0].ProductID)
	assert.Equal(t, rice.ID, lines[1].ProductID)
}
