// Package app wires the configuration, the VK client and the services
// together for the CLI commands.
package app
