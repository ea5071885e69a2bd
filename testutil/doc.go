// Package testutil extends the component lifecycle with test hooks.
//
// A TestComponent can be started through T(t).Setup, which stops it when
// the test ends, and reset or snapshotted between cases:
//
//	srv := servertest.NewComponent()
//	testutil.T(t).Setup(srv)
//	defer testutil.T(t).Reset(srv)
//
// Implementations live next to the component they fake, e.g.
// server/testutil for the HTTP server and redis/testutil for miniredis.
package testutil
