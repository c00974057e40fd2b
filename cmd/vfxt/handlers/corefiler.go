package handlers

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
)

// BucketOptions carries the attach-bucket command flags.
type BucketOptions struct {
	Credential     string
	MasterPassword string
	ExistingData   bool
	DisableHTTPS   bool
	NoEncryption   bool
	RemoveOnFail   bool
}

// AttachBucket attaches an object-store bucket as a cloud core filer
// and prints the generated encryption master key.
func AttachBucket(ctx context.Context, opts Options, corefiler, bucket string, bucketOpts BucketOptions) error {
	attach := cluster.AttachBucketOptions{
		Credential:     bucketOpts.Credential,
		MasterPassword: bucketOpts.MasterPassword,
		ExistingData:   bucketOpts.ExistingData,
		DisableHTTPS:   bucketOpts.DisableHTTPS,
		RemoveOnFail:   bucketOpts.RemoveOnFail,
	}
	if bucketOpts.NoEncryption {
		attach.CryptoMode = cluster.CryptoModeDisabled
	}

	var key mgmt.MasterKey
	_, err := withCluster(ctx, opts, "attach-bucket", func(ctx context.Context, c *cluster.Cluster) error {
		var err error
		key, err = c.AttachBucket(ctx, corefiler, bucket, attach)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("Bucket %s attached as core filer %s\n", bucket, corefiler)
	if key.Complete() {
		fmt.Println()
		fmt.Println("Encryption master key - save both parts, they cannot be retrieved again:")
		fmt.Printf("  Key ID:   %s\n", key.ID)
		fmt.Printf("  Recovery: %s\n", key.Recovery)
	}
	return nil
}

// AttachCoreFiler attaches a plain NFS filer as a core filer.
func AttachCoreFiler(ctx context.Context, opts Options, corefiler, host, waitForExport string) error {
	_, err := withCluster(ctx, opts, "attach-corefiler", func(ctx context.Context, c *cluster.Cluster) error {
		return c.AttachCoreFiler(ctx, corefiler, host, cluster.AttachCoreFilerOptions{
			WaitForExport: waitForExport,
		})
	})
	if err != nil {
		return err
	}
	fmt.Printf("Filer %s attached as core filer %s\n", host, corefiler)
	return nil
}
