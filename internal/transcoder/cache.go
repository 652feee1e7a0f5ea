package transcoder

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/SoonerRobotics/SusScope/internal/metrics"
)

const (
	stagedExt = ".raw"
	finalExt  = ".mp4"
	lockExt   = ".lock"
	partExt   = ".part"
)

// entry is the cache layout for one clip of one archive.
type entry struct {
	key         string
	archivePath string
	member      string
	baseName    string
	dir         string
	stagedPath  string
	finalPath   string
	lockPath    string
}

// fingerprint identifies an archive by its absolute path.
func fingerprint(archivePath string) string {
	abs, err := filepath.Abs(archivePath)
	if err != nil {
		abs = archivePath
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return hex.EncodeToString(sum[:])[:16]
}

// baseName returns the member's file name without its extension.
func baseName(member string) string {
	name := path.Base(strings.ReplaceAll(member, "\\", "/"))
	if stem := strings.TrimSuffix(name, path.Ext(name)); stem != "" {
		name = stem
	}
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	return name
}

func (t *Transcoder) entryFor(archivePath, member string) (entry, bool) {
	base := baseName(member)
	if base == "" {
		return entry{}, false
	}
	fp := fingerprint(archivePath)
	dir := filepath.Join(t.cacheDir, fp)
	return entry{
		key:         fp + "/" + base,
		archivePath: archivePath,
		member:      member,
		baseName:    base,
		dir:         dir,
		stagedPath:  filepath.Join(dir, base+stagedExt),
		finalPath:   filepath.Join(dir, base+finalExt),
		lockPath:    filepath.Join(dir, base+lockExt),
	}, true
}

// CacheStats reports the number of materialized artifacts and the total
// size of the cache directory.
func (t *Transcoder) CacheStats() (metrics.Stats, error) {
	var stats metrics.Stats
	err := filepath.WalkDir(t.cacheDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == t.cacheDir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		stats.SizeBytes += info.Size()
		if filepath.Ext(p) == finalExt {
			stats.Entries++
		}
		return nil
	})
	return stats, err
}

// getDirSize calculates the total size of a directory
func getDirSize(dir string) (int64, error) {
	var size int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}
