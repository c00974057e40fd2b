package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// AttachBucket returns the attach-bucket command.
//
// The command attaches an object-store bucket as a cloud core filer and
// prints the generated encryption master key.
func AttachBucket() *cobra.Command {
	var opts handlers.BucketOptions

	cmd := &cobra.Command{
		Use:   "attach-bucket COREFILER BUCKET",
		Short: "Attach an object-store bucket as a cloud core filer",
		Long: `Attach-bucket registers an existing bucket with the cluster as a
cloud core filer named COREFILER.

Without --credential the bucket is authorized through the provider and
a management credential is created for it. Data written through the
filer is encrypted unless --no-encryption is given; the generated
master key is printed once and must be saved, it is the only way to
recover the data after a failure.

A bucket that already holds filer data must be attached with
--existing-data so its contents are preserved.

Example:
  vfxt attach-bucket wan-storage demo-bucket
  vfxt attach-bucket wan-storage demo-bucket --credential prod-cred --existing-data`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.AttachBucket(cmd.Context(), globalOptions(), args[0], args[1], opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.Credential, "credential", "", "Existing management credential to attach with instead of authorizing the bucket")
	fl.StringVar(&opts.MasterPassword, "master-password", "", "Password protecting the encryption master key (default: admin password)")
	fl.BoolVar(&opts.ExistingData, "existing-data", false, "The bucket already holds core-filer data")
	fl.BoolVar(&opts.DisableHTTPS, "no-https", false, "Talk to the object store over plain HTTP")
	fl.BoolVar(&opts.NoEncryption, "no-encryption", false, "Store data unencrypted")
	fl.BoolVar(&opts.RemoveOnFail, "remove-on-fail", false, "Remove the core filer again when its exports never appear")

	return cmd
}
