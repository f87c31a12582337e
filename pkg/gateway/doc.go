// Package gateway provides a reusable quantum job tracker gateway that can be
// embedded into other Go applications.
//
// # Overview
//
// The gateway exposes IBM Quantum Runtime job and device telemetry as a small
// REST API shaped for a dashboard frontend, plus a thin submission endpoint
// that forwards a fixed two-qubit demonstration circuit.
//
// # Basic Usage
//
// Create a gateway programmatically:
//
//	cfg := &gateway.Config{
//		Server: gateway.ServerConfig{
//			Port:         8000,
//			ReadTimeout:  30 * time.Second,
//			WriteTimeout: 120 * time.Second,
//		},
//		IBM: gateway.IBMConfig{
//			Token:    os.Getenv("IBM_QUANTUM_TOKEN"),
//			Instance: os.Getenv("IBM_QUANTUM_INSTANCE"),
//			Channel:  "ibm_cloud",
//		},
//		Logging: gateway.LoggingConfig{
//			Level:  "info",
//			Format: "json",
//		},
//	}
//
//	gw, err := gateway.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := gw.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Using with an Existing HTTP Server
//
// Mount the gateway under a path prefix:
//
//	gw, err := gateway.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	http.Handle("/quantum/", http.StripPrefix("/quantum", gw.Handler()))
//	http.ListenAndServe(":8000", nil)
//
// # Environment-based Configuration
//
// Load everything from environment variables (a .env file works too):
//
//	gw, err := gateway.NewFromEnv("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Direct Service Access
//
// Access the service layer directly for programmatic control:
//
//	svc := gw.Service()
//
//	summary, err := svc.Metrics(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("live jobs: %d\n", summary.LiveJobs)
package gateway
