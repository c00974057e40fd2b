package cluster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// Upgrade downloads the image at url into the alternate slot and
// activates it: start the download, watch download activities until the
// alternate image changes, wait for the server to allow activation,
// then activate and watch until the active image is the new one.
// Downloading a version that is already active ends the operation
// early.
func (c *Cluster) Upgrade(ctx context.Context, url string, opts UpgradeOptions) error {
	opts = opts.withDefaults()

	var info mgmt.ClusterInfo
	var existing []string
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		var err error
		info, err = m.Cluster().Get(ctx)
		if err != nil {
			return err
		}
		status, err := m.Cluster().UpgradeStatus(ctx)
		if err != nil {
			return err
		}
		if !status.AllowDownload {
			return errs.Configurationf("upgrade downloads are not allowed at this time")
		}
		existing, err = activityIDs(ctx, m)
		if err != nil {
			return err
		}
		c.observer.Printf("Fetching alternate image from %s", url)
		return m.Cluster().Upgrade(ctx, url)
	})
	if err != nil {
		return err
	}

	info, err = c.waitForAlternateImage(ctx, info.AlternateImage, existing, opts.Attempts)
	if err != nil {
		return err
	}

	target := info.AlternateImage
	if target == info.ActiveImage {
		c.observer.Printf("Skipping upgrade since this version is active")
		return nil
	}

	if err := c.waitForActivateReadiness(ctx); err != nil {
		return err
	}

	c.observer.Printf("Activating alternate image")
	err = c.withManagement(ctx, func(m *mgmt.Client) error {
		if _, err := m.Cluster().ActivateAltImage(ctx); err != nil {
			return err
		}
		var err error
		existing, err = activityIDs(ctx, m)
		return err
	})
	if err != nil {
		return err
	}

	if err := c.waitForActiveImage(ctx, target, existing, opts.Attempts); err != nil {
		return err
	}

	return c.withManagement(ctx, func(m *mgmt.Client) error {
		status, err := m.Cluster().UpgradeStatus(ctx)
		if err != nil {
			return err
		}
		c.observer.Printf("%s", status.Status)
		return nil
	})
}

// waitForAlternateImage polls until the alternate image differs from
// previous, watching new download activities for failure. Redownloading
// the version already in the alternate slot completes with the image
// unchanged.
func (c *Cluster) waitForAlternateImage(ctx context.Context, previous string, existing []string, attempts int) (mgmt.ClusterInfo, error) {
	info := mgmt.ClusterInfo{AlternateImage: previous}
	redownloadStatus := fmt.Sprintf("Download %s complete", previous)
	remaining := attempts

	for info.AlternateImage == previous {
		if err := sleep(ctx, pollInterval); err != nil {
			return info, err
		}
		var redownloaded bool
		err := c.withManagement(ctx, func(m *mgmt.Client) error {
			fresh, err := m.Cluster().Get(ctx)
			if err != nil {
				return err
			}
			info = fresh
			activities, err := newImageActivities(ctx, m, existing, "software download")
			if err != nil {
				return err
			}
			for _, a := range activities {
				if a.State == mgmt.ActivityStateFailure {
					return errs.Configurationf("failed to download upgrade image")
				}
			}
			if remaining%10 == 0 {
				c.observer.Printf("Current activities: %s", activityStatuses(activities))
			}
			for _, a := range activities {
				if a.Status == redownloadStatus {
					c.observer.Printf("Redownloaded existing version")
					redownloaded = true
				}
			}
			return nil
		})
		if err != nil {
			if errs.IsConfiguration(err) {
				return info, err
			}
			if remaining%10 == 0 {
				c.observer.Printf("Retrying install check: %v", err)
			}
		}
		if redownloaded {
			break
		}
		remaining--
		if remaining == 0 {
			return info, &errs.ConnectionError{Address: c.MgmtIP, Err: errors.New("timeout waiting for alternate image")}
		}
	}
	return info, nil
}

// waitForActiveImage polls until the active image is target, watching
// new activation activities for failure.
func (c *Cluster) waitForActiveImage(ctx context.Context, target string, existing []string, attempts int) error {
	active := ""
	remaining := attempts

	for active != target {
		if err := sleep(ctx, pollInterval); err != nil {
			return err
		}
		err := c.withManagement(ctx, func(m *mgmt.Client) error {
			fresh, err := m.Cluster().Get(ctx)
			if err != nil {
				return err
			}
			active = fresh.ActiveImage
			activities, err := newImageActivities(ctx, m, existing, "software activate")
			if err != nil {
				return err
			}
			for _, a := range activities {
				if a.State == mgmt.ActivityStateFailure {
					return errs.Configurationf("failed to activate alternate image")
				}
			}
			if remaining%10 == 0 {
				c.observer.Printf("Current activities: %s", activityStatuses(activities))
			}
			return nil
		})
		if err != nil {
			if errs.IsConfiguration(err) {
				return err
			}
			c.observer.Printf("Retrying upgrade check: %v", err)
		}
		remaining--
		if remaining == 0 {
			return &errs.ConnectionError{Address: c.MgmtIP, Err: errors.New("timeout waiting for active image")}
		}
	}
	return nil
}

// waitForActivateReadiness waits for the server to report the alternate
// image can be activated. Releases that never report readiness get a
// fixed settle delay instead.
func (c *Cluster) waitForActivateReadiness(ctx context.Context) error {
	err := retry.Do(ctx, func() error {
		var status mgmt.UpgradeStatus
		err := c.withManagement(ctx, func(m *mgmt.Client) error {
			var err error
			status, err = m.Cluster().UpgradeStatus(ctx)
			return err
		})
		if err != nil {
			return err
		}
		if !status.AllowActivate {
			return errors.New("activation not yet allowed")
		}
		return nil
	}, retry.WithAttempts(statusAttempts), retry.WithInterval(pollInterval))
	if err != nil {
		c.observer.Printf("Waiting for alternate image to settle")
		return sleep(ctx, imageSettleDelay)
	}
	return nil
}

func activityIDs(ctx context.Context, m *mgmt.Client) ([]string, error) {
	activities, err := m.Cluster().ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(activities, func(a mgmt.Activity, _ int) string { return a.ID }), nil
}

// newImageActivities returns upgrade-related activities that started
// after the snapshot in existing.
func newImageActivities(ctx context.Context, m *mgmt.Client, existing []string, fragment string) ([]mgmt.Activity, error) {
	activities, err := m.Cluster().ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(activities, func(a mgmt.Activity, _ int) bool {
		if lo.Contains(existing, a.ID) {
			return false
		}
		return a.Process == "Cluster upgrade" || strings.Contains(a.Process, fragment)
	}), nil
}

func activityStatuses(activities []mgmt.Activity) string {
	return strings.Join(lo.Map(activities, func(a mgmt.Activity, _ int) string { return a.Status }), ", ")
}
