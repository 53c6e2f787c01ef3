// Package session keeps server side session records addressed by an opaque
// id carried in a cookie.
//
// A Manager resolves the id from the cookie, creating a fresh record when the
// id is empty, unknown or its record is corrupt. Records are JSON encoded into
// a fiber.Storage; NewStorage opens the memory, mysql, postgres or redis
// backing selected by configuration. Writes replace the whole record and
// refresh its TTL. Regenerate moves a record to a new id and is used when a
// session logs in.
//
// Flash is a single message slot on the record that is read once.
package session
