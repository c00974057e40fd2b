package cluster

// Export is the portable identity of a cluster handle. It carries just
// enough to reconstruct the handle later: node handles are re-resolved
// from the backend by instance ID, everything else from the management
// channel.
type Export struct {
	Name          string   `yaml:"name"`
	MgmtIP        string   `yaml:"mgmt_ip"`
	AdminPassword string   `yaml:"admin_password"`
	Nodes         []string `yaml:"nodes"`
}

// Export captures the handle for storage.
func (c *Cluster) Export() Export {
	ids := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		ids[i] = n.ID()
	}
	return Export{
		Name:          c.Name,
		MgmtIP:        c.MgmtIP,
		AdminPassword: c.AdminPassword,
		Nodes:         ids,
	}
}
