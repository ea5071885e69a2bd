// Package testutil provides an httptest-backed server component for API
// tests. Import it under an alias next to the root testutil package:
//
//	srv := servertest.NewComponent(func(s *server.Server) {
//	    api.NewHandler(svc, store).Register(s.GinEngine())
//	})
//	testutil.T(t).Setup(srv)
//	resp, _ := http.Get(srv.BaseURL() + "/api/models")
package testutil
