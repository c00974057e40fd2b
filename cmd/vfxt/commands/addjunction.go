package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// AddJunction returns the add-junction command.
func AddJunction() *cobra.Command {
	var opts handlers.JunctionOptions

	cmd := &cobra.Command{
		Use:   "add-junction VSERVER COREFILER",
		Short: "Map a vserver path onto a core-filer export",
		Long: `Add-junction mounts an export of COREFILER into the namespace of
VSERVER. The junction path defaults to /COREFILER and the export to /.

Example:
  vfxt add-junction vs1 wan-storage
  vfxt add-junction vs1 nas1 --path /archive --export /data --subdir 2024`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.AddJunction(cmd.Context(), globalOptions(), args[0], args[1], opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.Path, "path", "", "Junction path in the vserver namespace (default: /COREFILER)")
	fl.StringVar(&opts.Export, "export", "", "Core-filer export to junction (default: /)")
	fl.StringVar(&opts.Subdir, "subdir", "", "Subdirectory within the export to mount")

	return cmd
}
