//go:build e2e

package e2e

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
	"github.com/SanatPandey22/AvereSDK/internal/config"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/keygen"
)

var _ = Describe("Cluster lifecycle", Ordered, func() {
	var c *cluster.Cluster

	AfterAll(func(ctx SpecContext) {
		// Best-effort teardown so a mid-suite failure does not leak
		// paid instances.
		if c != nil && c.State() != cluster.StateDestroyed {
			_ = c.Destroy(ctx, cluster.DestroyOptions{RemoveBuckets: true})
		}
	}, NodeTimeout(15*time.Minute))

	It("creates a three node cluster", func(ctx SpecContext) {
		kp, err := keygen.Generate(keygen.DefaultBits)
		Expect(err).NotTo(HaveOccurred())

		c, err = cluster.Create(ctx, backend, dialer, cluster.CreateOptions{
			Name:          clusterName,
			AdminPassword: adminPass,
			Size:          3,
			RootImage:     rootImage,
			SSHPublicKey:  string(kp.Public),
			WaitForState:  "yellow",
			Observer:      cluster.NewConsoleObserver(),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Nodes).To(HaveLen(3))
		Expect(c.State()).To(Equal(cluster.StateReady))
		Expect(c.MgmtIP).NotTo(BeEmpty())
	}, SpecTimeout(60*time.Minute))

	It("reports every node running", func(ctx SpecContext) {
		Expect(c.Refresh(ctx)).To(Succeed())
		for _, n := range c.Status() {
			Expect(n.Status).To(Equal(platform.StatusRunning), "node %s", n.Name)
		}
	}, SpecTimeout(2*time.Minute))

	It("holds a yellow health floor", func(ctx SpecContext) {
		Expect(c.WaitForHealthCheck(ctx, cluster.HealthCheckOptions{
			Severity: mgmt.SeverityYellow,
			HoldFor:  30 * time.Second,
		})).To(Succeed())
	}, SpecTimeout(20*time.Minute))

	It("attaches a scratch bucket as a core filer", func(ctx SpecContext) {
		if os.Getenv(config.EnvS3AccessKey) == "" {
			Skip("VFXT_S3_ACCESS_KEY not set, skipping object storage")
		}
		key, err := c.MakeTestBucket(ctx, "", "wan-storage", cluster.AttachBucketOptions{
			RemoveOnFail: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(key.Complete()).To(BeTrue())
	}, SpecTimeout(15*time.Minute))

	It("serves clients through a vserver junction", func(ctx SpecContext) {
		if os.Getenv(config.EnvS3AccessKey) == "" {
			Skip("VFXT_S3_ACCESS_KEY not set, skipping object storage")
		}
		Expect(c.AddVServer(ctx, "vs1", cluster.VServerOptions{})).To(Succeed())
		Expect(c.AddVServerJunction(ctx, "vs1", "wan-storage", cluster.JunctionOptions{})).To(Succeed())
	}, SpecTimeout(15*time.Minute))

	It("survives a stop and start round trip", func(ctx SpecContext) {
		Expect(c.Stop(ctx, cluster.StopOptions{})).To(Succeed())
		Expect(c.IsOff()).To(BeTrue())

		Expect(c.Start(ctx)).To(Succeed())
		Expect(c.WaitForHealthCheck(ctx, cluster.HealthCheckOptions{
			Severity: mgmt.SeverityYellow,
			HoldFor:  30 * time.Second,
		})).To(Succeed())
	}, SpecTimeout(45*time.Minute))

	It("destroys the cluster and its instances", func(ctx SpecContext) {
		Expect(c.Destroy(ctx, cluster.DestroyOptions{RemoveBuckets: true})).To(Succeed())
		Expect(c.State()).To(Equal(cluster.StateDestroyed))

		instances, err := backend.FindClusterInstances(ctx, clusterName)
		Expect(err).NotTo(HaveOccurred())
		Expect(instances).To(BeEmpty())
	}, SpecTimeout(15*time.Minute))
})
