// Package config defines the vfxt configuration file schema, its
// defaulting and validation stages, and the interactive wizard that
// generates it. Secrets can ride in the file or come from the
// environment; the environment wins.
package config
