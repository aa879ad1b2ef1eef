// Package handlers implements the crontab CLI commands.
//
// Cluster access, terminal detection and output are package variables so
// tests can replace them.
package handlers
