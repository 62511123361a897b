// Package hash provides salted password hashing and verification.
//
// Passwords are stretched with PBKDF2 and stored as a self-describing record:
//
//	<KEYHEX>:<SALTHEX>:<iterations>:<algorithm>
//
// Store only the record, then verify user input by re-deriving the key with
// the salt, iteration count and algorithm read back from it. Keys are compared
// in constant time.
//
// The record carries no integrity tag binding the algorithm and iteration
// count to the key, so it must come from a trusted store. Adding one would
// break compatibility with records already issued in this format.
package hash
