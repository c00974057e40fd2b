// Package hetzner implements the platform backend on Hetzner Cloud.
// Instances are cloud servers attached to a private network with
// explicitly assigned addresses, data disks are cloud volumes, and
// cloud core filer buckets live on the S3-compatible object storage.
package hetzner
