// Package main provides the susscope command.
//
// SusScope inspects robot session archives: zip files holding a session log
// (output.suslog) and video clips recorded during the run. Clips are
// transcoded on demand into browser-playable MP4 files kept in a local
// cache.
//
// # Commands
//
//	susscope serve [--archive session.zip]   run the loopback command and media API
//	susscope log <archive>                   print the session log
//	susscope clips <archive> [--filter q]    list video clips, optionally fuzzy-filtered
//	susscope resolve <archive> <clip>        transcode a clip and print its path and URI
//	susscope cache stats                     show media cache usage
//	susscope cache clear                     remove every cached artifact
//	susscope version                         print build information
//
// Configuration comes from an optional TOML file (--config), environment
// variables (see package startup) and the persistent flags --cache-dir,
// --ffmpeg, --log-member and --log-level, in increasing precedence. clips
// and cache stats draw tables when stdout is a terminal.
//
// # Server Lifecycle
//
// serve loads configuration, prepares the cache directory, builds the
// session, transcoder and media handler, and listens on LISTEN_ADDR. On
// SIGINT or SIGTERM it stops in-flight transcodes, drains HTTP requests and
// stops the metrics collector.
package main
