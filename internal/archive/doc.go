// Package archive reads members out of a recorded SusScope session.
//
// A session archive is a zip container holding one plain-text log member
// (output.suslog by default) and any number of raw video clips. Members are
// addressed by their exact relative name and are never modified.
//
// ReadMember and ExtractMember report three distinct failures through
// sentinel errors: ErrNoActiveArchive for an empty path,
// ErrArchiveUnreadable for a missing or corrupt container, and
// ErrMemberNotFound for an absent entry. ReadText and ListClips collapse all
// of them into an empty result for the presentation layer, which only ever
// needs to know whether there is something to show.
package archive
