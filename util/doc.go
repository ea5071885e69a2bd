// Package util holds small string helpers shared by the server and the API:
// human-readable size parsing and upload file name sanitization.
package util
