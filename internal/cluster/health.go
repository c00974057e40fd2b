package cluster

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// WaitForHealthCheck polls the cluster's worst active alert severity
// until it has stayed at or better than the requested severity for the
// configured hold duration. The observation window restarts whenever the
// severity dips or the channel drops, so a momentary recovery is not
// enough. On exhaustion the failure names the conditions still
// complaining.
func (c *Cluster) WaitForHealthCheck(ctx context.Context, opts HealthCheckOptions) error {
	opts = opts.withDefaults()
	c.observer.Printf("Waiting for healthcheck state %s for %s", opts.Severity, opts.HoldFor)

	// Establish connectivity up front; after power transitions the
	// channel can take a while to come back.
	saved := c.connRetries
	c.connRetries = opts.ConnRetries
	client, err := c.management(ctx)
	c.connRetries = saved
	if err != nil {
		return err
	}
	client.Close()

	acceptable := map[string]bool{opts.Severity: true, mgmt.SeverityGreen: true}
	if opts.Severity == mgmt.SeverityRed {
		acceptable[mgmt.SeverityYellow] = true
	}

	attempt := 0
	err = retry.Hold(ctx, func() (bool, error) {
		attempt++
		var severity string
		err := c.withManagement(ctx, func(m *mgmt.Client) error {
			var err error
			severity, err = m.Cluster().MaxActiveAlertSeverity(ctx)
			return err
		})
		if err != nil {
			// transitions leave the channel briefly unreachable
			if attempt%10 == 0 {
				c.observer.Printf("Severity not yet %s: %v", opts.Severity, err)
			}
			return false, nil
		}
		if !acceptable[severity] {
			if attempt%10 == 0 {
				c.observer.Printf("Severity %s, waiting for %s", severity, opts.Severity)
			}
			return false, nil
		}
		return true, nil
	}, opts.HoldFor, retry.WithAttempts(opts.Attempts), retry.WithInterval(pollInterval))
	if err == nil {
		return nil
	}

	conditions := c.outstandingConditions(ctx, opts.Severity)
	return &errs.StatusError{
		Reason:     "healthcheck for state " + opts.Severity + " failed",
		Conditions: conditions,
	}
}

// outstandingConditions names the alert conditions not at the requested
// severity, best effort.
func (c *Cluster) outstandingConditions(ctx context.Context, severity string) []string {
	var names []string
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		conditions, err := m.Alert().Conditions(ctx)
		if err != nil {
			return err
		}
		for _, cond := range conditions {
			if cond.Severity != severity {
				names = append(names, cond.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil
	}
	return names
}

// WaitForNodesToJoin blocks until the management channel reports as many
// joined nodes as the handle carries. Nodes mid-image-upgrade push the
// wall-clock window out instead of consuming the attempt budget; a
// wall-clock cap of attempts*1.5 seconds bounds the total wait when
// individual attempts are slowed by connection timeouts.
func (c *Cluster) WaitForNodesToJoin(ctx context.Context, attempts int) error {
	expected := len(c.Nodes)
	found, err := c.joinedNodeCount(ctx)
	if err != nil {
		return err
	}
	if expected <= found {
		c.observer.Printf("All nodes have joined the cluster.")
		return nil
	}

	c.observer.Printf("Waiting for all nodes to join")
	c.setState(StateJoining)

	nodeAddresses := lo.Map(c.Nodes, func(n *platform.Node, _ int) string { return n.Address() })
	wallClock := time.Duration(float64(attempts)*1.5) * time.Second
	windowStart := timeNow()
	remaining := attempts

	for {
		found, err := c.joinedNodeCount(ctx)
		if err != nil {
			// the channel drops while membership changes; at minimum the
			// node we dialed exists
			found = 1
		}
		if expected == found {
			break
		}

		statuses, err := c.joiningStatuses(ctx, nodeAddresses)
		if err == nil && lo.SomeBy(statuses, func(s string) bool { return strings.Contains(s, "image") }) {
			c.observer.Printf("Waiting for image upgrade to finish: %s", strings.Join(statuses, ", "))
			windowStart = timeNow()
			if err := sleep(ctx, pollInterval); err != nil {
				return err
			}
			continue
		}

		if remaining == 0 || timeNow().Sub(windowStart) > wallClock {
			return errs.Configurationf("timed out waiting for %d node(s) to join", expected-found)
		}
		remaining--
		if remaining%10 == 0 {
			c.observer.Progress("joining", found, expected)
			_ = c.withManagement(ctx, func(m *mgmt.Client) error {
				c.logConditions(ctx, m)
				return nil
			})
		}
		if err := sleep(ctx, pollInterval); err != nil {
			return err
		}
	}

	c.observer.Printf("All nodes have joined the cluster.")
	return nil
}

func (c *Cluster) joinedNodeCount(ctx context.Context) (int, error) {
	var count int
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		names, err := m.Node().List(ctx)
		if err != nil {
			return err
		}
		count = len(names)
		return nil
	})
	return count, err
}

// joiningStatuses returns the join progress of the handle's own
// instances still listed as unconfigured.
func (c *Cluster) joiningStatuses(ctx context.Context, addresses []string) ([]string, error) {
	var statuses []string
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		unconfigured, err := m.Node().ListUnconfiguredNodes(ctx)
		if err != nil {
			return err
		}
		for _, u := range unconfigured {
			if lo.Contains(addresses, u.Address) {
				statuses = append(statuses, u.Status)
			}
		}
		return nil
	})
	return statuses, err
}

// VerifyLicense waits for the FlashCloud feature license to be
// provisioned. Cloud core filers cannot be attached without it.
func (c *Cluster) VerifyLicense(ctx context.Context) error {
	c.observer.Printf("Waiting for FlashCloud licensing feature")
	attempt := 0
	err := retry.Do(ctx, func() error {
		attempt++
		var licenses mgmt.Licenses
		err := c.withManagement(ctx, func(m *mgmt.Client) error {
			var err error
			licenses, err = m.Cluster().ListLicenses(ctx)
			return err
		})
		if err != nil {
			return err
		}
		if !licenses.HasFeature("FlashCloud") {
			if attempt%10 == 0 {
				c.observer.Printf("Waiting for the FlashCloud license feature to become enabled")
			}
			return errors.New("FlashCloud feature not yet licensed")
		}
		return nil
	}, retry.WithAttempts(licenseAttempts), retry.WithInterval(pollInterval))
	if err != nil {
		return errs.Configurationf("unable to verify cluster licensing")
	}
	c.observer.Printf("Feature FlashCloud enabled.")
	return nil
}

// waitForServiceChecks fans provider-side instance checks out across the
// nodes. A noop for backends without such checks.
func (c *Cluster) waitForServiceChecks(ctx context.Context) error {
	checker, ok := c.backend.(platform.ServiceChecker)
	if !ok {
		return nil
	}
	c.setState(StateServiceChecks)
	return c.parallelNodes(ctx, "wait for service checks on", func(ctx context.Context, n *platform.Node) error {
		return checker.WaitForServiceChecks(ctx, n.Instance())
	})
}
