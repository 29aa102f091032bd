package emergency_test

import (
	"context"
	"fmt"
	"time"

	"github.com/srlab/scheme-reliability/pkg/emergency"
)

// Example demonstrates shutdown controller usage.
func Example() {
	controller := emergency.New()

	controller.OnStop(func() {
		fmt.Println("shutdown triggered!")
		fmt.Println("closing metrics server...")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller.Start(ctx)

	fmt.Println("controller started, watching for SIGINT/SIGTERM")

	select {
	case <-controller.StopChannel():
		fmt.Println("shutdown detected via channel")
	case <-time.After(100 * time.Millisecond):
		fmt.Println("no shutdown triggered (timeout)")
	}

	// Output:
	// controller started, watching for SIGINT/SIGTERM
	// no shutdown triggered (timeout)
}
