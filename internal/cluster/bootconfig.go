package cluster

import (
	"fmt"
	"strings"

	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// bootConfig is the cluster.cfg payload a node reads at first boot to
// form a new cluster.
type bootConfig struct {
	Name       string
	Password   string
	Expiration int64
	MgmtIP     string
	Netmask    string
	Router     string
	Cluster    netutil.Range
	Env        platform.Environment
}

// render produces the literal cluster.cfg text. The node-side parser is
// line oriented and whitespace sensitive, so the layout here is fixed.
func (b bootConfig) render() string {
	var sb strings.Builder
	sb.WriteString("# cluster.cfg\n")
	sb.WriteString("[basic]\n")
	fmt.Fprintf(&sb, "cluster name=%s\n", b.Name)
	fmt.Fprintf(&sb, "password=%s\n", b.Password)
	fmt.Fprintf(&sb, "expiration=%d\n", b.Expiration)
	sb.WriteString("[management network]\n")
	fmt.Fprintf(&sb, "address=%s\n", b.MgmtIP)
	fmt.Fprintf(&sb, "netmask=%s\n", b.Netmask)
	fmt.Fprintf(&sb, "default router=%s\n", b.Router)
	sb.WriteString("[cluster network]\n")
	fmt.Fprintf(&sb, "first address=%s\n", b.Cluster.First)
	fmt.Fprintf(&sb, "last address=%s\n", b.Cluster.Last)
	sb.WriteString("[dns]\n")
	for i, s := range padServers(b.Env.DNSServers) {
		fmt.Fprintf(&sb, "server%d=%s\n", i+1, s)
	}
	fmt.Fprintf(&sb, "domain=%s\n", b.Env.Domain)
	sb.WriteString("[ntp]\n")
	for i, s := range padServers(b.Env.NTPServers) {
		fmt.Fprintf(&sb, "server%d=%s\n", i+1, s)
	}
	return sb.String()
}

// joinConfig is the minimal cluster.cfg for a node joining an existing
// cluster.
func joinConfig(addr string, expiration int64) string {
	return fmt.Sprintf("# cluster.cfg\n[basic]\njoin cluster=%s\nexpiration=%d\n", addr, expiration)
}

// padServers always yields three entries; the config format expects
// server1 through server3 even when fewer are configured.
func padServers(servers []string) [3]string {
	var out [3]string
	for i := 0; i < len(servers) && i < 3; i++ {
		out[i] = servers[i]
	}
	return out
}

// joinAddress is the address a joining node's config points at: the
// management address normally, the first node's instance address when
// the management address floats between nodes.
func (c *Cluster) joinAddress() string {
	if !c.JoinMgmt && len(c.Nodes) > 0 {
		return c.Nodes[0].Address()
	}
	return c.MgmtIP
}

func (c *Cluster) configExpiration() int64 {
	return timeNow().Add(c.expiration).Unix()
}
