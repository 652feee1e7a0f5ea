package archive

import (
	"testing"
)

func TestFilterMembers(t *testing.T) {
	members := []Member{
		{Name: "videos/front_camera.avi"},
		{Name: "videos/rear_camera.avi"},
		{Name: "videos/lidar.mkv"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query", "", []string{"videos/front_camera.avi", "videos/rear_camera.avi", "videos/lidar.mkv"}},
		{"whitespace query", "   ", []string{"videos/front_camera.avi", "videos/rear_camera.avi", "videos/lidar.mkv"}},
		{"single match", "lidar", []string{"videos/lidar.mkv"}},
		{"case folded", "FRONT", []string{"videos/front_camera.avi"}},
		{"prefix of name", "rear", []string{"videos/rear_camera.avi"}},
		{"no match", "thermal", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMembers(members, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterMembers(%q) = %v, want %v", tt.query, names(got), tt.want)
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("FilterMembers(%q)[%d] = %q, want %q", tt.query, i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestFilterMembersRanksCloserFirst(t *testing.T) {
	members := []Member{
		{Name: "videos/camera_long_name.avi"},
		{Name: "cam.avi"},
	}
	got := FilterMembers(members, "cam")
	if len(got) != 2 || got[0].Name != "cam.avi" {
		t.Errorf("FilterMembers ranking = %v, want cam.avi first", names(got))
	}
}

func names(members []Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name
	}
	return out
}
