package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/distortviz/pkg/httputil"
)

func ExampleRetry() {
	calls := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return httputil.Retryable(errors.New("503 service unavailable"))
		}
		return nil
	})
	fmt.Println("calls:", calls, "err:", err)
	// Output:
	// calls: 2 err: <nil>
}

func ExamplePolicy() {
	p := httputil.Policy{Attempts: 1}
	err := p.Do(context.Background(), func() error {
		return httputil.Retryable(errors.New("timeout"))
	})
	fmt.Println(err)
	// Output:
	// timeout
}
