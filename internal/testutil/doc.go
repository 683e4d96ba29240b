// Package testutil holds helpers shared by the test suites: a thread-safe
// log buffer, a scriptable process runner and file fixtures.
package testutil
