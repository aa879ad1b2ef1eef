// Package testenv installs and removes the plugin's helm chart around an
// end-to-end run.
//
// Chart lifecycle is skipped when the console runs on a local development
// address. Install and uninstall failures are logged and do not stop the
// run; only the final wait for the console to register the plugin is fatal.
package testenv
