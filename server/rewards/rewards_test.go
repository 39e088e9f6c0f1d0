package rewards

import "testing"

func TestTickets(t *testing.T) {
	cases := []struct {
		name            string
		score, redeemed int
		want            int
	}{
		{"three tickets available", 150, 0, 3},
		{"one draw spent", 150, 50, 2},
		{"fully redeemed", 150, 150, 0},
		{"one point short", 49, 0, 0},
		{"exactly one ticket", 50, 0, 1},
		{"no score", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tickets(tc.score, tc.redeemed); got != tc.want {
				t.Errorf("Tickets(%d, %d) = %d, want %d", tc.score, tc.redeemed, got, tc.want)
			}
		})
	}
}
