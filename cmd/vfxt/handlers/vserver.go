package handlers

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// VServerOptions carries the add-vserver command flags.
type VServerOptions struct {
	First   string
	Last    string
	Netmask string
	Size    int
}

// AddVServer creates a vserver with a client-facing address range.
func AddVServer(ctx context.Context, opts Options, name string, vsOpts VServerOptions) error {
	_, err := withCluster(ctx, opts, "add-vserver", func(ctx context.Context, c *cluster.Cluster) error {
		return c.AddVServer(ctx, name, cluster.VServerOptions{
			Size:         vsOpts.Size,
			StartAddress: vsOpts.First,
			EndAddress:   vsOpts.Last,
			Netmask:      vsOpts.Netmask,
		})
	})
	if err != nil {
		return err
	}
	fmt.Printf("VServer %s created\n", name)
	return nil
}

// JunctionOptions carries the add-junction command flags.
type JunctionOptions struct {
	Path   string
	Export string
	Subdir string
}

// AddJunction maps a vserver path onto a core-filer export.
func AddJunction(ctx context.Context, opts Options, vserver, corefiler string, jOpts JunctionOptions) error {
	_, err := withCluster(ctx, opts, "add-junction", func(ctx context.Context, c *cluster.Cluster) error {
		return c.AddVServerJunction(ctx, vserver, corefiler, cluster.JunctionOptions{
			Path:   jOpts.Path,
			Export: jOpts.Export,
			Subdir: jOpts.Subdir,
		})
	})
	if err != nil {
		return err
	}
	path := jOpts.Path
	if path == "" {
		path = "/" + corefiler
	}
	fmt.Printf("Junction %s on vserver %s now serves core filer %s\n", path, vserver, corefiler)
	return nil
}
