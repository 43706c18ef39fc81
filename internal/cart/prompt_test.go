package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Prompt_Open_Prefill(t *testing.T) {
	testCases := []struct {
		name             string
		existingQuantity string
		editMode         bool
		expectedInitial  string
	}{
		{name: "No existing line defaults to 1", existingQuantity: "", editMode: false, expectedInitial: "1"},
		{name: "Existing line pre-fills its quantity", existingQuantity: "4", editMode: false, expectedInitial: "4"},
		{name: "Edit mode pre-fills existing quantity", existingQuantity: "2.5", editMode: true, expectedInitial: "2.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			c := New()
			var existing *Line
			if tc.existingQuantity != "" {
				require.NoError(t, c.AddOrUpdate(rice, dec(t, tc.existingQuantity)))
				line, _ := c.Find(rice.ID)
				existing = &line
			}
			p := NewPrompt()
			// when
			p.Open(rice, existing, tc.editMode)
			// then
			assert.True(t, p.IsOpen())
			assert.Equal(t, tc.editMode, p.EditMode())
			assert.Equal(t, rice.ID, p.Product().ID)
			assert.Equal(t, tc.expectedInitial, p.Initial().String())
		})
	}
}

func Test_Prompt_Confirm(t *testing.T) {
	testCases := []struct {
		name        string
		rawQuantity string
		expectError error
		stayOpen    bool
	}{
		{name: "Success - valid quantity", rawQuantity: "3", expectError: nil},
		{name: "Error - not a number", rawQuantity: "abc", expectError: ErrInvalidQuantity, stayOpen: true},
		{name: "Error - empty input", rawQuantity: "", expectError: ErrInvalidQuantity, stayOpen: true},
		{name: "Error - zero", rawQuantity: "0", expectError: ErrInvalidQuantity, stayOpen: true},
		{name: "Error - above stock", rawQuantity: "11", expectError: ErrStockExceeded, stayOpen: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			c := New()
			p := NewPrompt()
			p.Open(rice, nil, false)
			// when
			err := p.Confirm(tc.rawQuantity, c)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				// a failed confirm stays open for redisplay and leaves the cart alone
				assert.True(t, p.IsOpen())
				assert.Equal(t, 0, c.Len())
				return
			}
			require.NoError(t, err)
			assert.False(t, p.IsOpen())
			line, found := c.Find(rice.ID)
			require.True(t, found)
			assert.Equal(t, tc.rawQuantity, line.Quantity.String())
		})
	}
}

func Test_Prompt_Confirm_WithoutOpen(t *testing.T) {
	// given
	c := New()
	p := NewPrompt()
	// when
	err := p.Confirm("3", c)
	// then
	assert.ErrorIs(t, err, ErrNoPrompt)
	assert.Equal(t, 0, c.Len())
}

func Test_Prompt_Cancel(t *testing.T) {
	// given
	c := New()
	p := NewPrompt()
	p.Open(rice, nil, false)
	// when
	p.Cancel()
	// then
	assert.False(t, p.IsOpen())
	assert.Equal(t, 0, c.Len())

	// a cancelled prompt cannot be confirmed
	assert.ErrorIs(t, p.Confirm("3", c), ErrNoPrompt)
}
