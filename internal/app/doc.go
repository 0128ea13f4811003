// Package app wires SalesPulse together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration (.env, environment, optional YAML file)
//  2. Initialize logging and OpenTelemetry
//  3. Build the dataset cache, loader and dashboard service
//  4. Start the WebSocket hub
//  5. Set up chi routes and middleware
//  6. Serve HTTP until SIGINT or SIGTERM
//
// # Usage
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// NewDashboardService is exported so the report command can run the same
// load → validate → compute pipeline without starting a server.
//
// The package never calls os.Exit; initialization errors are returned.
package app
