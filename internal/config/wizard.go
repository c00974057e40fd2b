package config

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// nodeSizeOptions are the options shown in the wizard node size
// selector. Populated by FetchNodeSizeOptions from the Hetzner API;
// falls back to a static list when no token is available.
var nodeSizeOptions []huh.Option[string]

// FetchNodeSizeOptions queries the Hetzner API for available server
// types and populates the wizard options. Filters to x86, dedicated
// vCPU, non-deprecated types: cache nodes are steady-state busy and
// shared vCPU throttling shows up directly as client latency. An empty
// result set silently falls back to the static defaults.
func FetchNodeSizeOptions(ctx context.Context, client *hcloud.Client) error {
	types, err := client.ServerType.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch server types: %w", err)
	}

	var opts []huh.Option[string]
	cores := map[string]int{}
	memory := map[string]float32{}
	for _, st := range types {
		if st.Architecture != hcloud.ArchitectureX86 {
			continue
		}
		if st.CPUType != hcloud.CPUTypeDedicated {
			continue
		}
		if st.IsDeprecated() {
			continue
		}

		priceStr := ""
		for _, p := range st.Pricings {
			if p.Monthly.Net != "" {
				priceStr = p.Monthly.Net
				break
			}
		}

		label := fmt.Sprintf("%s - %d vCPU, %.0fGB RAM",
			strings.ToUpper(st.Name), st.Cores, st.Memory)
		if priceStr != "" {
			if price, err := strconv.ParseFloat(priceStr, 64); err == nil {
				label += fmt.Sprintf(" (~€%.2f/mo)", price)
			}
		}

		cores[st.Name] = st.Cores
		memory[st.Name] = st.Memory
		opts = append(opts, huh.NewOption(label, st.Name))
	}

	if len(opts) > 0 {
		sort.Slice(opts, func(i, j int) bool {
			a, b := opts[i].Value, opts[j].Value
			if cores[a] != cores[b] {
				return cores[a] < cores[b]
			}
			return memory[a] < memory[b]
		})
		nodeSizeOptions = opts
	}
	return nil
}

// defaultNodeSizeOptions returns a static fallback for when no API is
// available.
func defaultNodeSizeOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("CCX23 - 4 vCPU, 16GB RAM", "ccx23"),
		huh.NewOption("CCX33 - 8 vCPU, 32GB RAM", "ccx33"),
		huh.NewOption("CCX43 - 16 vCPU, 64GB RAM", "ccx43"),
		huh.NewOption("CCX53 - 32 vCPU, 128GB RAM", "ccx53"),
	}
}

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Name          string
	AdminPassword string
	NodeCount     int
	NodeSize      string
	Location      string
	RootImage     string

	ObjectStorage bool
	Endpoint      string
	AccessKey     string
	SecretKey     string
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		NodeCount: 3,
		NodeSize:  "ccx33",
		Location:  "fsn1",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster name").
				Description("Names every resource the cluster owns (DNS-safe, lowercase)").
				Placeholder("averecluster").
				Value(&result.Name).
				Validate(ValidName),

			huh.NewInput().
				Title("Admin password").
				Description("Assigned to the cluster admin account").
				EchoMode(huh.EchoModePassword).
				Value(&result.AdminPassword).
				Validate(requireValue("admin password")),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Location").
				Description("Hetzner Cloud datacenter location").
				Options(
					huh.NewOption("Falkenstein, Germany (fsn1)", "fsn1"),
					huh.NewOption("Nuremberg, Germany (nbg1)", "nbg1"),
					huh.NewOption("Helsinki, Finland (hel1)", "hel1"),
				).
				Value(&result.Location),

			huh.NewSelect[int]().
				Title("Cluster size").
				Description("Node count; three is the supported minimum").
				Options(
					huh.NewOption("3 nodes", 3),
					huh.NewOption("4 nodes", 4),
					huh.NewOption("5 nodes", 5),
					huh.NewOption("6 nodes", 6),
				).
				Value(&result.NodeCount),

			huh.NewSelect[string]().
				Title("Node size").
				Description("Dedicated vCPU instances").
				OptionsFunc(func() []huh.Option[string] {
					if len(nodeSizeOptions) > 0 {
						return nodeSizeOptions
					}
					return defaultNodeSizeOptions()
				}, &result.NodeSize).
				Value(&result.NodeSize),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Node image").
				Description("Root disk image for cluster nodes").
				Placeholder("avere-os").
				Value(&result.RootImage).
				Validate(requireValue("node image")),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Configure object storage?").
				Description("Needed for cloud core filer buckets").
				Value(&result.ObjectStorage),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Object storage endpoint").
				Placeholder("https://fsn1.your-objectstorage.com").
				Value(&result.Endpoint).
				Validate(requireValue("endpoint")),

			huh.NewInput().
				Title("Access key").
				Value(&result.AccessKey),

			huh.NewInput().
				Title("Secret key").
				EchoMode(huh.EchoModePassword).
				Value(&result.SecretKey),
		).WithHideFunc(func() bool { return !result.ObjectStorage }),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}
	return result, nil
}

// ToConfig converts the wizard result to a configuration with defaults
// applied, ready to save.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		Cluster: ClusterConfig{
			Name:          r.Name,
			AdminPassword: r.AdminPassword,
			NodeCount:     r.NodeCount,
			NodeSize:      r.NodeSize,
			RootImage:     r.RootImage,
		},
		Hetzner: HetznerConfig{
			Location: r.Location,
		},
	}
	if r.ObjectStorage {
		cfg.Hetzner.ObjectStorage = ObjectStorageConfig{
			Endpoint:  r.Endpoint,
			AccessKey: r.AccessKey,
			SecretKey: r.SecretKey,
		}
	}
	cfg.SetDefaults()
	return cfg
}

// requireValue rejects empty wizard inputs.
func requireValue(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
