package notify

import "testing"

func TestDefaultViewers(t *testing.T) {
	viewers := DefaultViewers()
	if len(viewers) == 0 {
		t.Fatal("DefaultViewers() returned no viewers")
	}
	want := map[string]bool{"feh": false, "imv": false}
	for _, v := range viewers {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("DefaultViewers() missing %q", name)
		}
	}
}

func TestViewerSet(t *testing.T) {
	tests := []struct {
		name    string
		viewers []string
		want    []string
	}{
		{
			name:    "custom list",
			viewers: []string{"sxiv", "feh"},
			want:    []string{"sxiv", "feh"},
		},
		{
			name:    "empty falls back to defaults",
			viewers: nil,
			want:    DefaultViewers(),
		},
		{
			name:    "blanks dropped",
			viewers: []string{" ", "", "imv"},
			want:    []string{"imv"},
		},
		{
			name:    "only blanks fall back to defaults",
			viewers: []string{"", "  "},
			want:    DefaultViewers(),
		},
		{
			name:    "duplicates collapse",
			viewers: []string{"feh", "feh"},
			want:    []string{"feh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := viewerSet(tt.viewers)
			if len(set) != len(tt.want) {
				t.Fatalf("viewerSet() has %d entries, want %d", len(set), len(tt.want))
			}
			for _, name := range tt.want {
				if _, ok := set[name]; !ok {
					t.Errorf("viewerSet() missing %q", name)
				}
			}
		})
	}
}
