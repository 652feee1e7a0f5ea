// Package session holds the single active archive of a SusScope process.
//
// A Session is created empty at startup and passed explicitly to the
// handlers and commands that need it. Reads hand out a copy of the path so
// callers never hold the lock across archive extraction or transcoding.
package session
