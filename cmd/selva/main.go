// Selva is the web front of the case-management API. It renders the HTML views
// and relays the browser's JSON calls to the upstream backend.
//
// Usage:
//
//	# Start the server (default command)
//	selva serve
//
//	# Write config.json interactively
//	selva setup
//
//	# Show version information
//	selva version
package main

import (
	_ "time/tzdata"
)

func main() {
	Execute()
}
