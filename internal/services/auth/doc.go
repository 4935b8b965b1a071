// Package auth checks teacher and student credentials against the store.
//
// A lookup miss still verifies the password against the hasher's decoy hash,
// so "no such user" and "wrong password" take the same time.
package auth
