package config

import (
	"fmt"
	"net"
	"regexp"
	"sort"
)

// validName matches DNS-safe cluster names: lowercase alphanumerics and
// inner hyphens, 1 to 128 characters.
var validName = regexp.MustCompile(`^[a-z]([-a-z0-9]*[a-z0-9])?$`)

// ValidLocations contains all valid Hetzner Cloud datacenter locations.
// https://docs.hetzner.com/cloud/general/locations/
var ValidLocations = map[string]bool{
	"nbg1": true, // Nuremberg, Germany
	"fsn1": true, // Falkenstein, Germany
	"hel1": true, // Helsinki, Finland
	"ash":  true, // Ashburn, USA
	"hil":  true, // Hillsboro, USA
	"sin":  true, // Singapore
}

// ValidNetworkZones contains all valid Hetzner Cloud network zones.
// https://docs.hetzner.com/cloud/networks/overview/
var ValidNetworkZones = map[string]bool{
	"eu-central":   true,
	"us-east":      true,
	"us-west":      true,
	"ap-southeast": true,
}

// ValidName checks a cluster name against the naming rules shared by
// every resource derived from it.
func ValidName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 128 {
		return fmt.Errorf("name must be 128 characters or less")
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("name must start with a lowercase letter and contain only lowercase letters, digits and hyphens")
	}
	return nil
}

// Validate checks the configuration and returns an error naming the
// offending field.
func (c *Config) Validate() error {
	if err := ValidName(c.Cluster.Name); err != nil {
		return fmt.Errorf("cluster.name: %w", err)
	}
	if c.Cluster.AdminPassword == "" {
		return fmt.Errorf("cluster.admin_password is required (or set %s)", EnvAdminPassword)
	}
	if c.Cluster.NodeCount < 3 {
		return fmt.Errorf("cluster.node_count must be at least 3, got %d", c.Cluster.NodeCount)
	}
	switch c.Cluster.WaitForState {
	case "red", "yellow", "green":
	default:
		return fmt.Errorf("cluster.wait_for_state must be red, yellow or green, got %q", c.Cluster.WaitForState)
	}
	if err := validateRange("cluster.address_range", c.Cluster.AddressRange); err != nil {
		return err
	}
	if c.Cluster.Subnet != "" {
		if _, _, err := net.ParseCIDR(c.Cluster.Subnet); err != nil {
			return fmt.Errorf("invalid cluster.subnet: %w", err)
		}
	}
	if c.Cluster.ManagementAddress != "" && net.ParseIP(c.Cluster.ManagementAddress) == nil {
		return fmt.Errorf("invalid cluster.management_address %q", c.Cluster.ManagementAddress)
	}

	if c.Hetzner.Token == "" {
		return fmt.Errorf("hetzner.token is required (or set %s)", EnvToken)
	}
	if !ValidLocations[c.Hetzner.Location] {
		return fmt.Errorf("invalid hetzner.location %q: must be one of %v", c.Hetzner.Location, sortedKeys(ValidLocations))
	}
	if !ValidNetworkZones[c.Hetzner.NetworkZone] {
		return fmt.Errorf("invalid hetzner.network_zone %q: must be one of %v", c.Hetzner.NetworkZone, sortedKeys(ValidNetworkZones))
	}
	if _, _, err := net.ParseCIDR(c.Hetzner.NetworkRange); err != nil {
		return fmt.Errorf("invalid hetzner.network_range: %w", err)
	}
	if _, _, err := net.ParseCIDR(c.Hetzner.Subnet); err != nil {
		return fmt.Errorf("invalid hetzner.subnet: %w", err)
	}

	if s := c.Hetzner.ObjectStorage; s.Endpoint != "" {
		if s.AccessKey == "" {
			return fmt.Errorf("hetzner.object_storage.access_key is required (or set %s)", EnvS3AccessKey)
		}
		if s.SecretKey == "" {
			return fmt.Errorf("hetzner.object_storage.secret_key is required (or set %s)", EnvS3SecretKey)
		}
	}
	return nil
}

// validateRange checks an explicit address range: either fully absent or
// first and last both set and parseable.
func validateRange(field string, r RangeConfig) error {
	if r.IsZero() {
		return nil
	}
	if r.First == "" || r.Last == "" {
		return fmt.Errorf("%s: first and last must both be set", field)
	}
	if net.ParseIP(r.First) == nil {
		return fmt.Errorf("%s.first: invalid address %q", field, r.First)
	}
	if net.ParseIP(r.Last) == nil {
		return fmt.Errorf("%s.last: invalid address %q", field, r.Last)
	}
	if r.Netmask != "" && net.ParseIP(r.Netmask) == nil {
		return fmt.Errorf("%s.netmask: invalid netmask %q", field, r.Netmask)
	}
	return nil
}

// sortedKeys returns the keys of a set in stable order for error
// messages.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
