// Package imagecheck decides whether a raw recipe's image reference is usable:
// the URL must end with the configured format token and a GET against it must
// answer exactly 200 OK.
//
// The format check always runs first so malformed references cost no network
// round trip. Reachability failures are reported as a Verdict, never as an
// error.
package imagecheck
