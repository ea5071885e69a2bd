// Package bootstrap runs a vlmscribe process through a uniform lifecycle:
// start components, run configure callbacks, check readiness, print a
// startup summary, then either block until a shutdown signal (Run) or run a
// finite task (RunTask) before stopping everything in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storeComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap
