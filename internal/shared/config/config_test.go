package config

import "testing"

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int64
	}{
		{"empty", "", []int64{}},
		{"single", "123", []int64{123}},
		{"multiple", "1,2,3", []int64{1, 2, 3}},
		{"spaces", " 1 , 2 ", []int64{1, 2}},
		{"skips garbage", "1,abc,3", []int64{1, 3}},
		{"skips empty parts", "1,,2,", []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAdminIDs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseAdminIDs(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("ParseAdminIDs(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}
