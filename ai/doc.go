// Package ai maps configured provider API keys to language model
// clients and embedders. The registry is rebuilt from settings, so a
// settings change takes effect with a Reload rather than a restart.
package ai
