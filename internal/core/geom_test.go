package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 10, 6).Inset(1)
	if r != NewRect(1, 1, 8, 4) {
		t.Errorf("Inset(1) = %+v", r)
	}

	tiny := NewRect(0, 0, 2, 2).Inset(3)
	if tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inset should not go negative, got %+v", tiny)
	}
}

func TestCenteredIn(t *testing.T) {
	got := CenteredIn(NewRect(0, 0, 80, 24), 20, 4)
	if got != NewRect(30, 10, 20, 4) {
		t.Errorf("CenteredIn = %+v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		val, n, expected int
	}{
		{3, 8, 3},
		{8, 8, 0},
		{-1, 8, 7},
		{-9, 8, 7},
		{5, 0, 0},
	}

	for _, tc := range tests {
		if got := Wrap(tc.val, tc.n); got != tc.expected {
			t.Errorf("Wrap(%d, %d) = %d, expected %d", tc.val, tc.n, got, tc.expected)
		}
	}
}

func TestMinMaxAbs(t *testing.T) {
	if Min(5, 10) != 5 || Min(10, 5) != 5 {
		t.Error("Min should return the smaller value")
	}
	if Max(5, 10) != 10 || Max(10, 5) != 10 {
		t.Error("Max should return the larger value")
	}
	if Abs(-5) != 5 || Abs(5) != 5 || Abs(0) != 0 {
		t.Error("Abs failed")
	}
}
