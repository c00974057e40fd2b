package cluster

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// AttachBucket attaches an existing object-store bucket as a cloud core
// filer and returns the generated encryption master key. The recovery
// payload in the key is the only way to regain access to the data after
// a failure, so callers must persist it.
func (c *Cluster) AttachBucket(ctx context.Context, corefiler, bucket string, opts AttachBucketOptions) (mgmt.MasterKey, error) {
	opts = opts.withDefaults()

	exists, err := c.corefilerExists(ctx, corefiler)
	if err != nil {
		return mgmt.MasterKey{}, err
	}
	if exists {
		return mgmt.MasterKey{}, errs.Configurationf("corefiler %s exists", corefiler)
	}

	credential := opts.Credential
	if credential == "" {
		credential, err = c.backend.AuthorizeBucket(ctx, bucket)
		if err != nil {
			return mgmt.MasterKey{}, err
		}
	}
	masterPassword := opts.MasterPassword
	if masterPassword == "" {
		masterPassword = c.AdminPassword
	}
	proxy := opts.Proxy
	if proxy == "" && c.Proxy != nil {
		proxy = c.Proxy.Hostname()
	}
	s3Type := opts.S3Type
	if s3Type == "" {
		s3Type = c.backend.S3Type()
	}
	https := "yes"
	if opts.DisableHTTPS {
		https = "no"
	}
	contents := "empty"
	if opts.ExistingData {
		contents = "used"
	}
	spec := mgmt.CloudFilerSpec{
		FilerType:       "cloud",
		CloudType:       opts.CloudType,
		S3Type:          s3Type,
		Bucket:          bucket,
		CloudCredential: credential,
		HTTPS:           https,
		CompressMode:    opts.CompressMode,
		CryptoMode:      opts.CryptoMode,
		Proxy:           proxy,
		BucketContents:  contents,
	}

	c.observer.Printf("Creating corefiler %s", corefiler)
	var token string
	err = c.withManagement(ctx, func(m *mgmt.Client) error {
		// The cloud filer license lands asynchronously after cluster
		// creation; createCloudFiler faults until it does.
		return retry.Do(ctx, func() error {
			var err error
			token, err = m.CoreFiler().CreateCloudFiler(ctx, corefiler, spec)
			if err != nil && !mgmt.IsLicenseNotReady(err) {
				return retry.Fatal(err)
			}
			return err
		}, retry.WithAttempts(licenseAttempts), retry.WithInterval(pollInterval))
	})
	if err != nil {
		return mgmt.MasterKey{}, err
	}
	if err := c.waitForFilerActivity(ctx, corefiler, token, successAttempts); err != nil {
		return mgmt.MasterKey{}, err
	}

	exists, err = c.corefilerExists(ctx, corefiler)
	if err != nil {
		return mgmt.MasterKey{}, err
	}
	if !exists {
		return mgmt.MasterKey{}, errs.Configurationf("failed to create corefiler %s: not found", corefiler)
	}

	var key mgmt.MasterKey
	if opts.CryptoMode != CryptoModeDisabled {
		key, err = c.generateMasterKey(ctx, corefiler, masterPassword)
		if err != nil {
			return mgmt.MasterKey{}, err
		}
	}

	c.observer.Printf("Waiting for corefiler exports to show up")
	if err := c.waitForExports(ctx, corefiler, "/", successAttempts); err != nil {
		if opts.RemoveOnFail {
			if rerr := c.RemoveCoreFiler(ctx, corefiler); rerr != nil {
				c.observer.Printf("Failed to remove corefiler %s: %v", corefiler, rerr)
			}
		}
		return mgmt.MasterKey{}, err
	}

	c.observer.Printf("*** IT IS STRONGLY RECOMMENDED THAT YOU CREATE A NEW CLOUD ENCRYPTION KEY AND SAVE THE")
	c.observer.Printf("*** KEY FILE (AND PASSWORD) BEFORE USING YOUR NEW CLUSTER.  WITHOUT THESE, IT WILL NOT")
	c.observer.Printf("*** BE POSSIBLE TO RECOVER YOUR DATA AFTER A FAILURE")
	c.observer.Printf("Do this at https://%s/avere/fxt/cloudFilerKeySettings.php", c.MgmtIP)
	return key, nil
}

// AttachCoreFiler attaches a plain NFS filer by its network name.
func (c *Cluster) AttachCoreFiler(ctx context.Context, corefiler, host string, opts AttachCoreFilerOptions) error {
	opts = opts.withDefaults()

	exists, err := c.corefilerExists(ctx, corefiler)
	if err != nil {
		return err
	}
	if exists {
		return errs.Configurationf("corefiler %s exists", corefiler)
	}
	if _, err := net.DefaultResolver.LookupHost(ctx, host); err != nil {
		return errs.Configurationf("unknown host %s: %v", host, err)
	}

	c.observer.Printf("Creating corefiler %s", corefiler)
	var token string
	err = c.withManagement(ctx, func(m *mgmt.Client) error {
		var err error
		token, err = m.CoreFiler().Create(ctx, corefiler, host)
		return err
	})
	if err != nil {
		return err
	}
	if err := c.waitForFilerActivity(ctx, corefiler, token, successAttempts); err != nil {
		return err
	}
	exists, err = c.corefilerExists(ctx, corefiler)
	if err != nil {
		return err
	}
	if !exists {
		return errs.Configurationf("failed to create corefiler %s: not found", corefiler)
	}

	c.observer.Printf("Waiting for corefiler exports to show up")
	if err := c.waitForExports(ctx, corefiler, opts.WaitForExport, opts.Attempts); err != nil {
		if rerr := c.RemoveCoreFiler(ctx, corefiler); rerr != nil {
			c.observer.Printf("Failed to remove corefiler %s: %v", corefiler, rerr)
		}
		return err
	}
	return nil
}

// RemoveCoreFiler detaches a core filer. Requires the maintenance API.
func (c *Cluster) RemoveCoreFiler(ctx context.Context, corefiler string) error {
	return c.withManagement(ctx, func(m *mgmt.Client) error {
		if err := m.EnableAPI(ctx, "maintenance"); err != nil {
			return err
		}
		token, err := m.CoreFiler().Remove(ctx, corefiler)
		if err != nil {
			return err
		}
		if err := mgmt.WaitActivity(ctx, m, token, retry.WithAttempts(successAttempts)); err != nil {
			return errs.Configurationf("failed to remove corefiler %s: %v", corefiler, err)
		}
		return nil
	})
}

// MakeTestBucket creates a bucket on the backend and attaches it. Bucket
// and corefiler names are generated when empty.
func (c *Cluster) MakeTestBucket(ctx context.Context, bucket, corefiler string, opts AttachBucketOptions) (mgmt.MasterKey, error) {
	if bucket == "" {
		suffix := make([]byte, 16)
		if _, err := rand.Read(suffix); err != nil {
			return mgmt.MasterKey{}, err
		}
		bucket = fmt.Sprintf("%s-%s", c.Name, hex.EncodeToString(suffix))
		if len(bucket) > 63 {
			bucket = bucket[:63]
		}
	}
	if corefiler == "" {
		corefiler = bucket
	}
	if err := c.backend.CreateBucket(ctx, bucket); err != nil {
		return mgmt.MasterKey{}, err
	}
	c.observer.Printf("Created bucket %s", bucket)
	return c.AttachBucket(ctx, corefiler, bucket, opts)
}

func (c *Cluster) corefilerExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		names, err := m.CoreFiler().List(ctx)
		if err != nil {
			return err
		}
		exists = lo.Contains(names, name)
		return nil
	})
	return exists, err
}

func (c *Cluster) generateMasterKey(ctx context.Context, corefiler, masterPassword string) (mgmt.MasterKey, error) {
	var key mgmt.MasterKey
	c.observer.Printf("Generating master key for %s", corefiler)
	err := retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			var err error
			key, err = m.CoreFiler().GenerateMasterKey(ctx, corefiler, masterPassword)
			if err != nil {
				return err
			}
			if !key.Complete() {
				return errs.Statusf("incomplete master key for %s", corefiler)
			}
			return nil
		})
	}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
	if err != nil {
		return mgmt.MasterKey{}, errs.Configurationf("failed to generate master key for %s: %v", corefiler, err)
	}

	c.observer.Printf("Activating master key for %s", corefiler)
	err = retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			return m.CoreFiler().ActivateMasterKey(ctx, corefiler, key.ID, key.Recovery)
		})
	}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
	if err != nil {
		return mgmt.MasterKey{}, errs.Configurationf("failed to activate master key for %s: %v", corefiler, err)
	}
	return key, nil
}

// waitForFilerActivity polls a filer creation activity, logging progress
// and outstanding conditions every tenth attempt.
func (c *Cluster) waitForFilerActivity(ctx context.Context, corefiler, token string, attempts int) error {
	if token == "" || token == mgmt.ActivitySuccessToken {
		return nil
	}
	for i := 1; i <= attempts; i++ {
		var act mgmt.Activity
		err := c.withManagement(ctx, func(m *mgmt.Client) error {
			var err error
			act, err = m.Cluster().GetActivity(ctx, token)
			return err
		})
		if err != nil {
			c.observer.Printf("Failed to get activity %s: %v", token, err)
		} else {
			if act.State == mgmt.ActivityStateSuccess {
				return nil
			}
			if act.State == mgmt.ActivityStateFailure {
				return errs.Configurationf("failed to create corefiler %s: %s", corefiler, act.Status)
			}
		}
		if i%10 == 0 {
			if act.Status != "" {
				c.observer.Printf("%s", act.Status)
			}
			_ = c.withManagement(ctx, func(m *mgmt.Client) error {
				c.logConditions(ctx, m)
				return nil
			})
		}
		if err := sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
	return errs.Configurationf("giving up waiting for corefiler %s", corefiler)
}

// waitForExports polls until the filer exports path, or any export when
// path is empty.
func (c *Cluster) waitForExports(ctx context.Context, corefiler, path string, attempts int) error {
	for i := 1; i <= attempts; i++ {
		var exports []mgmt.Export
		err := c.withManagement(ctx, func(m *mgmt.Client) error {
			var err error
			exports, err = m.CoreFiler().ListExports(ctx, corefiler)
			return err
		})
		if err == nil {
			if path == "" && len(exports) > 0 {
				return nil
			}
			if path != "" && lo.SomeBy(exports, func(e mgmt.Export) bool { return e.Path == path }) {
				return nil
			}
		}
		if i%10 == 0 {
			_ = c.withManagement(ctx, func(m *mgmt.Client) error {
				c.logConditions(ctx, m)
				return nil
			})
		}
		if err := sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
	return errs.Configurationf("timed out waiting for %s exports", corefiler)
}
