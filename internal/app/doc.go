// Package app wires configuration, telemetry, the summarization pipeline and
// the HTTP surface into one Application, and owns its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from .env, YAML and the environment
//  2. Initialize logging and OpenTelemetry
//  3. Build the Summarizer with business metrics as its observer
//  4. Initialize services and handlers
//  5. Set up the chi router and middleware
//  6. Start the HTTP server and shut down gracefully on SIGINT/SIGTERM
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
package app
