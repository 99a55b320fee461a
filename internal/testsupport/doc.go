// Package testsupport provides builders shared by package tests: temp-dir
// backed configs, an opened catalog, dataset writers and an HTTP server that
// serves generated JPEG images.
package testsupport
