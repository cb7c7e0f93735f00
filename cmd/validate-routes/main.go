package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/complaint-notifier/routes"
)

/* validate-routes - Standalone CLI tool to validate a webhook routes file
 * Usage: go run cmd/validate-routes/main.go [routes.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	routesFile := "routes.yaml"
	if len(os.Args) > 1 {
		routesFile = os.Args[1]
	}

	fmt.Printf("Validating routes file: %s\n", routesFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := routes.NewLoader()
	if err := loader.Load(routesFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loadedRoutes := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d route(s):\n", len(loadedRoutes))

	for i, route := range loadedRoutes {
		fmt.Printf("\n%d. Event: %s\n", i+1, route.Event)
		fmt.Printf("   Path:          %s\n", route.Path)
		if route.MaxAttempts != nil {
			fmt.Printf("   Max Attempts:  %d\n", *route.MaxAttempts)
		} else {
			fmt.Printf("   Max Attempts:  (global default)\n")
		}
		if route.Sync {
			fmt.Printf("   Delivery:      synchronous, never queued\n")
		} else {
			fmt.Printf("   Delivery:      queued\n")
		}
	}

	fmt.Printf("\n✓ All routes are valid!\n")
}
