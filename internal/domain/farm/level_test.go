package farm

import "testing"

func TestLevelForExperience(t *testing.T) {
	cases := []struct {
		exp  int
		want int
	}{
		{0, 1},
		{199, 1},
		{200, 2},
		{599, 2},
		{600, 3},
		{1200, 4},
		{1199, 3},
	}
	for _, tc := range cases {
		if got := LevelForExperience(tc.exp); got != tc.want {
			t.Fatalf("LevelForExperience(%d)=%d want %d", tc.exp, got, tc.want)
		}
	}
}

func TestGainExperienceLevelsUp(t *testing.T) {
	p := Player{Level: 1, Experience: 150}

	if leveled := GainExperience(&p, 50); !leveled {
		t.Fatalf("expected level up at 200 exp")
	}
	if p.Level != 2 {
		t.Fatalf("level mismatch: got=%d want=2", p.Level)
	}

	if leveled := GainExperience(&p, 10); leveled {
		t.Fatalf("unexpected level up at %d exp", p.Experience)
	}
	if leveled := GainExperience(&p, 0); leveled {
		t.Fatalf("zero gain must not level")
	}
	if p.Experience != 210 {
		t.Fatalf("experience mismatch: got=%d want=210", p.Experience)
	}
}
