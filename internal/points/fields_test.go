package points

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]string
		fields []string
		want   string
		found  bool
	}{
		{"Exact Match", map[string]string{"lat": "1.5"}, []string{"lat", "latitude"}, "1.5", true},
		{"Case Insensitive", map[string]string{"Latitude": "2.5"}, []string{"lat", "latitude"}, "2.5", true},
		{"First Candidate Wins", map[string]string{"lat": "1", "latitude": "2"}, []string{"lat", "latitude"}, "1", true},
		{"Exact Beats Case Variant", map[string]string{"LAT": "9", "latitude": "2"}, []string{"latitude", "lat"}, "2", true},
		{"Empty Value Skipped", map[string]string{"lat": "", "latitude": "3"}, []string{"lat", "latitude"}, "3", true},
		{"All Empty", map[string]string{"lat": ""}, []string{"lat", "latitude"}, "", false},
		{"Missing", map[string]string{"x": "1"}, []string{"lat"}, "", false},
		{"Nil Record", nil, []string{"lat"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Resolve(tt.record, tt.fields...)
			if got != tt.want || found != tt.found {
				t.Errorf("Resolve(%v, %v) = (%q, %v); want (%q, %v)",
					tt.record, tt.fields, got, found, tt.want, tt.found)
			}
		})
	}
}
