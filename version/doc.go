// Package version reports the vlmscribe build version. Values are set at
// compile time via -ldflags and filled from the embedded VCS build info
// when absent:
//
//	go build -ldflags "-X github.com/kbukum/vlmscribe/version.Version=1.0.0" ./cmd/vlmscribe
package version
