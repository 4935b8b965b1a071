// Package console drives the interactive login and menu flow.
//
// It prompts for a role, username and password, then shows the student or
// teacher menu until the operator logs out or quits. Authentication failures
// are reported with a single message that does not reveal whether the
// username or the password was wrong.
package console
