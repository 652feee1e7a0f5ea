package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/SoonerRobotics/SusScope/internal/filesystem"
	"github.com/SoonerRobotics/SusScope/internal/logging"
	"github.com/SoonerRobotics/SusScope/internal/metrics"
)

// DefaultLogMember is the fixed name of the session log inside an archive.
const DefaultLogMember = "output.suslog"

// Sentinel errors for archive reads.
var (
	// ErrNoActiveArchive indicates that no archive path was given.
	ErrNoActiveArchive = errors.New("no active archive")

	// ErrArchiveUnreadable indicates a missing, unreadable, or corrupt container.
	ErrArchiveUnreadable = errors.New("archive unreadable")

	// ErrMemberNotFound indicates that the named entry is not in the archive.
	ErrMemberNotFound = errors.New("member not found")
)

var clipExtensions = map[string]bool{
	".avi":   true,
	".mkv":   true,
	".mov":   true,
	".mp4":   true,
	".h264":  true,
	".mjpeg": true,
	".webm":  true,
}

// Member describes one entry of an archive.
type Member struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// reader is an open archive backed by a file handle.
type reader struct {
	file *os.File
	zr   *zip.Reader
}

func openArchive(archivePath string) (*reader, error) {
	if archivePath == "" {
		return nil, ErrNoActiveArchive
	}

	f, err := filesystem.OpenWithRetry(archivePath, filesystem.ArchiveRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveUnreadable, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrArchiveUnreadable, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrArchiveUnreadable, archivePath)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrArchiveUnreadable, err)
	}

	return &reader{file: f, zr: zr}, nil
}

func (r *reader) Close() {
	if err := r.file.Close(); err != nil {
		logging.Warn("failed to close archive %s: %v", r.file.Name(), err)
	}
}

// lookup finds memberName, tolerating a leading "./" or "/".
func (r *reader) lookup(memberName string) (*zip.File, error) {
	want, ok := normalizeName(memberName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMemberNotFound, memberName)
	}

	for _, f := range r.zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if name, ok := normalizeName(f.Name); ok && name == want {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMemberNotFound, memberName)
}

func normalizeName(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "", false
	}
	name = path.Clean(name)
	if name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return "", false
	}
	return name, true
}

// WriteError wraps a failure writing extracted bytes to the destination.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "write extracted member: " + e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }

// trackingWriter remembers whether a failure came from the destination.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}

// ExtractMember copies the raw bytes of memberName into w. A failure of w
// itself is returned as *WriteError.
func ExtractMember(archivePath, memberName string, w io.Writer) (int64, error) {
	return extract("extract", archivePath, memberName, w)
}

// ReadMember returns the exact stored bytes of memberName.
func ReadMember(archivePath, memberName string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := extract("read", archivePath, memberName, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func extract(op, archivePath, memberName string, w io.Writer) (n int64, err error) {
	start := time.Now()
	defer func() { record(op, start, err) }()

	r, err := openArchive(archivePath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	f, err := r.lookup(memberName)
	if err != nil {
		return 0, err
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %v", ErrArchiveUnreadable, memberName, err)
	}
	defer rc.Close()

	tw := &trackingWriter{w: w}
	n, err = io.Copy(tw, rc)
	if err != nil {
		if tw.err != nil {
			return n, &WriteError{Err: tw.err}
		}
		return n, fmt.Errorf("%w: read %s: %v", ErrArchiveUnreadable, memberName, err)
	}

	logging.Debug("Extracted %s from %s (%d bytes)", memberName, archivePath, n)
	return n, nil
}

// ReadText returns memberName decoded as UTF-8 text, or "" when there is
// nothing to show for any reason.
func ReadText(archivePath, memberName string) string {
	data, err := ReadMember(archivePath, memberName)
	if err != nil {
		if errors.Is(err, ErrNoActiveArchive) {
			logging.Debug("ReadText: no active archive")
		} else {
			logging.Warn("ReadText %s from %s: %v", memberName, archivePath, err)
		}
		return ""
	}
	return strings.ToValidUTF8(string(data), "�")
}

// ListMembers returns every file entry of the archive, sorted by name.
func ListMembers(archivePath string) (members []Member, err error) {
	start := time.Now()
	defer func() { record("list", start, err) }()

	r, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		members = append(members, Member{
			Name:     f.Name,
			Size:     int64(f.UncompressedSize64),
			Modified: f.Modified,
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

// ListClips returns the video members of the archive; failures yield an
// empty list.
func ListClips(archivePath string) []Member {
	members, err := ListMembers(archivePath)
	if err != nil {
		if !errors.Is(err, ErrNoActiveArchive) {
			logging.Warn("ListClips %s: %v", archivePath, err)
		}
		return []Member{}
	}

	clips := make([]Member, 0, len(members))
	for _, m := range members {
		if IsClip(m.Name) {
			clips = append(clips, m)
		}
	}
	return clips
}

// IsClip reports whether a member name looks like a video clip.
func IsClip(name string) bool {
	return clipExtensions[strings.ToLower(filepath.Ext(name))]
}

func record(op string, start time.Time, err error) {
	metrics.ArchiveReadDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.ArchiveReadsTotal.WithLabelValues(op, errStatus(err)).Inc()
}

func errStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNoActiveArchive):
		return "no_archive"
	case errors.Is(err, ErrArchiveUnreadable):
		return "unreadable"
	case errors.Is(err, ErrMemberNotFound):
		return "not_found"
	default:
		return "error"
	}
}
