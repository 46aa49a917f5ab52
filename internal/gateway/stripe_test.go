package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{0, 0},
		{1, 100},
		{24.99, 2499},
		{0.1, 10},
		{19.999, 2000},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MinorUnits(tc.price), "price %v", tc.price)
	}
}
