// Package handlers provides the HTTP command and media API that the
// SusScope front end talks to.
//
// It includes handlers for:
//   - Selecting and clearing the active archive
//   - Reading the session log and listing clips
//   - Resolving a clip to a playable file and its media URI
//   - Serving media files with byte-range support
//   - Clearing the media cache, health checks and version info
package handlers
