package mgmt

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// WaitActivity polls a background activity until it finishes. Calls that
// complete synchronously return ActivitySuccessToken (or nothing at all)
// instead of a real activity ID; both resolve immediately without a
// round trip. A failed activity aborts the poll.
func WaitActivity(ctx context.Context, c *Client, token string, opts ...retry.Option) error {
	if token == "" || token == ActivitySuccessToken {
		return nil
	}

	options := append([]retry.Option{retry.WithAttempts(300)}, opts...)
	return retry.Do(ctx, func() error {
		act, err := c.Cluster().GetActivity(ctx, token)
		if err != nil {
			return err
		}
		if act.State == ActivityStateFailure {
			return retry.Fatal(errs.TaskError{
				Description: fmt.Sprintf("activity %s (%s) failed: %s", token, act.Process, act.Status),
			})
		}
		if !act.Finished() {
			return fmt.Errorf("activity %s (%s) still running: %s", token, act.Process, act.Status)
		}
		return nil
	}, options...)
}
