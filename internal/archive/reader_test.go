package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeArchive builds a zip at dir/name containing members in order.
func writeArchive(t *testing.T, dir, name string, members map[string][]byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	for memberName, data := range members {
		w, err := zw.Create(memberName)
		if err != nil {
			t.Fatalf("create member %s: %v", memberName, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write member %s: %v", memberName, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return path
}

func sessionArchive(t *testing.T) string {
	t.Helper()
	return writeArchive(t, t.TempDir(), "session.zip", map[string][]byte{
		"output.suslog":    []byte("[00:00:01] boot\n[00:00:02] arm ok\n"),
		"clip1.avi":        bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 4096),
		"clips/clip2.mkv":  []byte("raw clip two"),
		"notes/readme.txt": []byte("notes"),
	})
}

func TestReadMember_ReturnsExactBytes(t *testing.T) {
	path := sessionArchive(t)

	tests := []struct {
		member   string
		expected []byte
	}{
		{"output.suslog", []byte("[00:00:01] boot\n[00:00:02] arm ok\n")},
		{"clip1.avi", bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 4096)},
		{"clips/clip2.mkv", []byte("raw clip two")},
		{"./clips/clip2.mkv", []byte("raw clip two")},
		{"/output.suslog", []byte("[00:00:01] boot\n[00:00:02] arm ok\n")},
	}

	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			data, err := ReadMember(path, tt.member)
			if err != nil {
				t.Fatalf("ReadMember(%q): %v", tt.member, err)
			}
			if !bytes.Equal(data, tt.expected) {
				t.Errorf("ReadMember(%q) returned %d bytes, want %d", tt.member, len(data), len(tt.expected))
			}
		})
	}
}

func TestReadMember_Errors(t *testing.T) {
	dir := t.TempDir()
	valid := sessionArchive(t)

	corrupt := filepath.Join(dir, "corrupt.zip")
	if err := os.WriteFile(corrupt, []byte("this is not a zip file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name    string
		archive string
		member  string
		want    error
	}{
		{"Empty path", "", "output.suslog", ErrNoActiveArchive},
		{"Missing archive", filepath.Join(dir, "missing.zip"), "output.suslog", ErrArchiveUnreadable},
		{"Corrupt archive", corrupt, "output.suslog", ErrArchiveUnreadable},
		{"Directory as archive", dir, "output.suslog", ErrArchiveUnreadable},
		{"Missing member", valid, "clip9.avi", ErrMemberNotFound},
		{"Directory member", valid, "clips", ErrMemberNotFound},
		{"Escaping member", valid, "../output.suslog", ErrMemberNotFound},
		{"Empty member", valid, "", ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadMember(tt.archive, tt.member)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if data != nil {
				t.Errorf("Expected nil data on error, got %d bytes", len(data))
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExtractMember(t *testing.T) {
	path := sessionArchive(t)

	var buf bytes.Buffer
	n, err := ExtractMember(path, "clips/clip2.mkv", &buf)
	if err != nil {
		t.Fatalf("ExtractMember: %v", err)
	}
	if n != int64(len("raw clip two")) || buf.String() != "raw clip two" {
		t.Errorf("ExtractMember wrote %d bytes %q", n, buf.String())
	}

	_, err = ExtractMember(path, "clip1.avi", failingWriter{})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Expected *WriteError, got %v", err)
	}
	if errors.Is(err, ErrArchiveUnreadable) {
		t.Error("Destination failures must not be reported as unreadable archives")
	}
}

func TestReadText(t *testing.T) {
	path := sessionArchive(t)

	if got := ReadText(path, DefaultLogMember); got != "[00:00:01] boot\n[00:00:02] arm ok\n" {
		t.Errorf("ReadText() = %q", got)
	}

	for _, archivePath := range []string{"", "/nonexistent/session.zip", path} {
		if got := ReadText(archivePath, "missing.suslog"); got != "" {
			t.Errorf("ReadText(%q, missing) = %q, want empty", archivePath, got)
		}
	}
}

func TestReadText_InvalidUTF8(t *testing.T) {
	path := writeArchive(t, t.TempDir(), "bad.zip", map[string][]byte{
		"output.suslog": {'o', 'k', 0xff, '!'},
	})

	if got := ReadText(path, "output.suslog"); got != "ok�!" {
		t.Errorf("ReadText() = %q, want replacement character", got)
	}
}

func TestListMembers(t *testing.T) {
	path := sessionArchive(t)

	members, err := ListMembers(path)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}

	want := []string{"clip1.avi", "clips/clip2.mkv", "notes/readme.txt", "output.suslog"}
	if len(members) != len(want) {
		t.Fatalf("Expected %d members, got %d", len(want), len(members))
	}
	for i, name := range want {
		if members[i].Name != name {
			t.Errorf("members[%d] = %q, want %q", i, members[i].Name, name)
		}
	}
	if members[0].Size != 3*4096 {
		t.Errorf("clip1.avi size = %d, want %d", members[0].Size, 3*4096)
	}

	if _, err := ListMembers(""); !errors.Is(err, ErrNoActiveArchive) {
		t.Errorf("Expected ErrNoActiveArchive, got %v", err)
	}
}

func TestListClips(t *testing.T) {
	path := sessionArchive(t)

	clips := ListClips(path)
	if len(clips) != 2 {
		t.Fatalf("Expected 2 clips, got %d", len(clips))
	}
	if clips[0].Name != "clip1.avi" || clips[1].Name != "clips/clip2.mkv" {
		t.Errorf("Unexpected clips: %+v", clips)
	}

	if got := ListClips("/nonexistent.zip"); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", got)
	}
}

func TestIsClip(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"clip1.avi", true},
		{"CLIP1.AVI", true},
		{"a/b/front.mkv", true},
		{"cam.h264", true},
		{"output.suslog", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsClip(tt.name); got != tt.want {
			t.Errorf("IsClip(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{ErrNoActiveArchive, "no_archive"},
		{ErrArchiveUnreadable, "unreadable"},
		{ErrMemberNotFound, "not_found"},
		{errors.New("other"), "error"},
	}

	for _, tt := range tests {
		if got := errStatus(tt.err); got != tt.want {
			t.Errorf("errStatus(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
