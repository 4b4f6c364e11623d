// Package commands defines the doseprofiler CLI.
//
// Commands
//
//   - info      Print the header and dose statistics of a binary dose matrix
//   - profile   Extract depth-dose or lateral profiles from a binary dose matrix
//   - plane     Write one voxel plane of a dose matrix as a planar dose table
//   - planar    Extract a central profile from a planar dose table
//   - compare   Compare a calculated profile with a measured one
//   - config    Write a default configuration file
//
// The root command loads the YAML configuration before any subcommand runs;
// flags given on the command line override it.
package commands
