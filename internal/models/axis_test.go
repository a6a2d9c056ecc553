package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{in: "by user", want: ByUser},
		{in: "user", want: ByUser},
		{in: " By Hotel ", want: ByHotel},
		{in: "hotel", want: ByHotel},
		{in: "by month", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAxis(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAxis)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAxis_TargetField(t *testing.T) {
	assert.Equal(t, "user_name", ByUser.TargetField())
	assert.Equal(t, "hotel_name", ByHotel.TargetField())
}

func TestPackage_TotalCost(t *testing.T) {
	p := Package{Duration: 3, UnitCost: 300}
	assert.Equal(t, 900.0, p.TotalCost())

	assert.Equal(t, 0.0, Package{Duration: 0, UnitCost: 300}.TotalCost())
}
