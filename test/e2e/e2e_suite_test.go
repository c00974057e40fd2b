//go:build e2e

// Package e2e exercises the full cluster lifecycle against a real
// Hetzner Cloud project and a real vFXT image.
//
// The suite is gated twice: the e2e build tag keeps it out of ordinary
// test runs, and the entry point skips unless the environment provides
//
//	VFXT_E2E=1
//	HCLOUD_TOKEN=<api token>
//	VFXT_E2E_IMAGE=<vFXT snapshot name or ID>
//
// Run it with:
//
//	VFXT_E2E=1 go test -v -tags=e2e -timeout 120m ./test/e2e/...
//
// Clusters created by the suite are named e2e-<unix time> and torn down
// afterwards. A run that dies hard can leave instances behind; they all
// carry the cluster label, so they are easy to find and delete by hand.
package e2e

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanatPandey22/AvereSDK/internal/config"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt/xmlrpc"
	"github.com/SanatPandey22/AvereSDK/internal/platform/hetzner"
)

func TestClusterLifecycle(t *testing.T) {
	if os.Getenv("VFXT_E2E") == "" {
		t.Skip("VFXT_E2E not set, skipping end-to-end suite")
	}
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cluster Lifecycle Suite")
}

var (
	backend     *hetzner.Backend
	dialer      mgmt.Dialer
	clusterName string
	adminPass   string
	rootImage   string
)

var _ = BeforeSuite(func() {
	Expect(os.Getenv(config.EnvToken)).NotTo(BeEmpty(), "HCLOUD_TOKEN must be set")
	rootImage = os.Getenv("VFXT_E2E_IMAGE")
	Expect(rootImage).NotTo(BeEmpty(), "VFXT_E2E_IMAGE must name a vFXT snapshot")

	cfg := &config.Config{}
	cfg.Cluster.Name = fmt.Sprintf("e2e-%d", time.Now().Unix())
	cfg.ApplyEnv()
	cfg.SetDefaults()

	var err error
	backend, err = hetzner.New(cfg.BackendConfig())
	Expect(err).NotTo(HaveOccurred())
	dialer = xmlrpc.NewDialer(xmlrpc.Options{})

	clusterName = cfg.Cluster.Name
	adminPass = cfg.Cluster.AdminPassword
	if adminPass == "" {
		adminPass = randomPassword()
	}
})

func randomPassword() string {
	buf := make([]byte, 12)
	_, err := rand.Read(buf)
	Expect(err).NotTo(HaveOccurred())
	return "E2e-" + hex.EncodeToString(buf)
}
