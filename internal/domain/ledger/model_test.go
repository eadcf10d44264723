package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
)

func TestEntryValidate(t *testing.T) {
	itemID := id.New()
	instID := id.New()
	qty := types.NewQuantityFromFloat64(5)

	tests := []struct {
		name    string
		entry   *Entry
		wantErr bool
	}{
		{
			name:  "valid donation entry",
			entry: NewEntry(itemID, instID, qty, EntryMetadata{DonationSource: "campanha"}),
		},
		{
			name:  "valid exit",
			entry: NewExit(itemID, instID, "123456789", qty, ExitMetadata{}),
		},
		{
			name:    "missing item",
			entry:   NewEntry(id.Nil(), instID, qty, EntryMetadata{}),
			wantErr: true,
		},
		{
			name:    "zero quantity",
			entry:   NewEntry(itemID, instID, 0, EntryMetadata{}),
			wantErr: true,
		},
		{
			name:    "negative quantity",
			entry:   NewExit(itemID, instID, "123456789", types.NewQuantityFromFloat64(-1), ExitMetadata{}),
			wantErr: true,
		},
		{
			name:    "exit without beneficiary",
			entry:   NewExit(itemID, instID, "", qty, ExitMetadata{}),
			wantErr: true,
		},
		{
			name: "entry referencing a beneficiary",
			entry: func() *Entry {
				e := NewEntry(itemID, instID, qty, EntryMetadata{})
				nif := "123456789"
				e.BeneficiaryNIF = &nif
				return e
			}(),
			wantErr: true,
		},
		{
			name: "unknown direction",
			entry: func() *Entry {
				e := NewEntry(itemID, instID, qty, EntryMetadata{})
				e.Direction = "transferencia"
				return e
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAttribution(t *testing.T) {
	instID := id.New()

	known := Known(instID)
	got, ok := known.InstitutionID()
	assert.True(t, ok)
	assert.Equal(t, instID, got)
	assert.False(t, known.IsOrphaned())
	assert.Equal(t, instID, *known.Nullable())

	orphaned := Orphaned()
	_, ok = orphaned.InstitutionID()
	assert.False(t, ok)
	assert.True(t, orphaned.IsOrphaned())
	assert.Nil(t, orphaned.Nullable())
}

func TestAttributionFromNullable(t *testing.T) {
	instID := id.New()
	assert.False(t, AttributionFromNullable(&instID).IsOrphaned())
	assert.True(t, AttributionFromNullable(nil).IsOrphaned())

	nilID := id.Nil()
	assert.True(t, AttributionFromNullable(&nilID).IsOrphaned())
}
