package mgmt

import (
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// Reply structs carry their wire member names as mapstructure tags;
// transports decode the channel's struct replies through them.

// Severity values reported for alert conditions, worst first.
const (
	SeverityRed    = "red"
	SeverityYellow = "yellow"
	SeverityGreen  = "green"
)

// Activity states and the token shortcut for work the server completed
// synchronously.
const (
	ActivitySuccessToken = "success"
	ActivityStateSuccess = "success"
	ActivityStateFailure = "failure"
)

// AddressAndMask pairs an address with its netmask.
type AddressAndMask struct {
	IP      string `mapstructure:"IP"`
	Netmask string `mapstructure:"netmask"`
}

// NamedRange is an address range as reported by the management channel.
// The server assigns the name; removal calls take it, not the bounds.
type NamedRange struct {
	Name    string `mapstructure:"name"`
	First   string `mapstructure:"firstIP"`
	Last    string `mapstructure:"lastIP"`
	Netmask string `mapstructure:"netmask"`
}

// Range strips the server-assigned name.
func (r NamedRange) Range() netutil.Range {
	return netutil.Range{First: r.First, Last: r.Last, Netmask: r.Netmask}
}

// rangeBody shapes a range for calls that take one.
func rangeBody(r netutil.Range) map[string]string {
	return map[string]string{
		"firstIP": r.First,
		"lastIP":  r.Last,
		"netmask": r.Netmask,
	}
}

// ClusterInfo mirrors cluster.get.
type ClusterInfo struct {
	Name              string         `mapstructure:"name"`
	MgmtIP            AddressAndMask `mapstructure:"mgmtIP"`
	ClusterIPs        []NamedRange   `mapstructure:"clusterIPs"`
	ClusterIPsPerNode int            `mapstructure:"clusterIPNumPerNode"`
	HA                string         `mapstructure:"ha"`
	ActiveImage       string         `mapstructure:"activeImage"`
	AlternateImage    string         `mapstructure:"alternateImage"`
	Proxy             string         `mapstructure:"proxy"`
	LicensingID       string         `mapstructure:"id"`
}

// HAEnabled reports whether high availability is on.
func (i ClusterInfo) HAEnabled() bool { return i.HA == "enabled" }

// NodeInfo mirrors node.get for one node. ID is the permanent remote
// identifier; Name is the display name the naming policy rewrites.
type NodeInfo struct {
	ID               string         `mapstructure:"id"`
	Name             string         `mapstructure:"name"`
	State            string         `mapstructure:"state"`
	PrimaryClusterIP AddressAndMask `mapstructure:"primaryClusterIP"`
	ClusterIPs       []string       `mapstructure:"clusterIPs"`
}

// UnconfiguredNode is a node visible to the cluster but not yet joined,
// reported by node.listUnconfiguredNodes.
type UnconfiguredNode struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	Status  string `mapstructure:"status"`
}

// Activity is a remote asynchronous operation handle, polled by ID until
// its state is terminal.
type Activity struct {
	ID      string  `mapstructure:"id"`
	Process string  `mapstructure:"process"`
	Status  string  `mapstructure:"status"`
	State   string  `mapstructure:"state"`
	Percent float64 `mapstructure:"percent"`
}

// Finished reports whether the activity reached a terminal state.
func (a Activity) Finished() bool {
	return a.State == ActivityStateSuccess || a.State == ActivityStateFailure
}

// Condition is a named alert condition with a severity on the ordered
// red/yellow/green scale.
type Condition struct {
	Name     string `mapstructure:"name"`
	Severity string `mapstructure:"severity"`
}

// Licenses mirrors cluster.listLicenses.
type Licenses struct {
	MaxNodes int      `mapstructure:"maxNodes"`
	Features []string `mapstructure:"features"`
}

// HasFeature reports whether a feature license is present.
func (l Licenses) HasFeature(name string) bool {
	for _, f := range l.Features {
		if f == name {
			return true
		}
	}
	return false
}

// UpgradeStatus mirrors cluster.upgradeStatus.
type UpgradeStatus struct {
	AllowDownload bool   `mapstructure:"allowDownload"`
	AllowActivate bool   `mapstructure:"allowActivate"`
	Status        string `mapstructure:"status"`
}

// ProxyConfig is a cluster-wide HTTP proxy configuration entry.
type ProxyConfig struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// VServerInfo mirrors vserver.get for one vserver.
type VServerInfo struct {
	Name            string       `mapstructure:"name"`
	ClientFacingIPs []NamedRange `mapstructure:"clientFacingIPs"`
}

// CoreFilerInfo mirrors corefiler.get for one core filer.
type CoreFilerInfo struct {
	Name       string `mapstructure:"name"`
	FilerType  string `mapstructure:"type"`
	S3Type     string `mapstructure:"s3Type"`
	Bucket     string `mapstructure:"bucket"`
	NetworkURI string `mapstructure:"networkUri"`
}

// Export is one exported path of a core filer within a vserver namespace.
type Export struct {
	Path string `mapstructure:"path"`
}

// MasterKey is a generated encryption master key for a cloud core filer.
// Recovery is the recovery file payload needed to activate the key.
type MasterKey struct {
	ID       string `mapstructure:"keyId"`
	Recovery string `mapstructure:"recoveryFile"`
}

// Complete reports whether generation produced both parts.
func (k MasterKey) Complete() bool { return k.ID != "" && k.Recovery != "" }

// CloudFilerSpec is the payload for corefiler.createCloudFiler.
type CloudFilerSpec struct {
	FilerType       string
	CloudType       string
	S3Type          string
	Bucket          string
	CloudCredential string
	HTTPS           string
	CompressMode    string
	CryptoMode      string
	Proxy           string
	BucketContents  string
}

// body shapes the spec into the call's wire form.
func (s CloudFilerSpec) body() map[string]string {
	return map[string]string{
		"type":            s.FilerType,
		"cloudType":       s.CloudType,
		"s3Type":          s.S3Type,
		"bucket":          s.Bucket,
		"cloudCredential": s.CloudCredential,
		"https":           s.HTTPS,
		"compressMode":    s.CompressMode,
		"cryptoMode":      s.CryptoMode,
		"proxy":           s.Proxy,
		"bucketContents":  s.BucketContents,
	}
}
