// Package transcoder materializes archive clips as browser-playable MP4
// files in a content-keyed cache.
//
// A clip is extracted from its archive into a staged file, handed to FFmpeg,
// and written to a temporary name that is renamed into place only when
// FFmpeg succeeds. Later requests for the same clip are served from the
// cache without opening the archive.
//
// Concurrent requests for one clip share a single transcode, a lock file
// keeps separate processes from racing on the same artifact, and the number
// of simultaneous FFmpeg processes is bounded.
package transcoder
