// Package models defines domain entities and persistence interfaces for the jukebox catalog service.
//
// The package contains the persistent entity types and the generic
// [Repository] contract their stores implement:
//   - [User] : a registered account with a hashed credential and premium flag
//   - [Song] : a catalog entry (name + artist)
//   - [Playlist] : a named, user-owned collection of songs
//   - [PlaylistSong] : junction record tying a song to a playlist
//
// Entities carry a uuid primary key, a human-readable sequence number,
// and soft-delete timestamps. Plaintext passwords never appear on any
// model; [User] stores only the one-way hash produced by the auth package.
package models
