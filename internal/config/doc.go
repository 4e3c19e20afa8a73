// Package config provides configuration loading, merging, and validation
// facilities for the record-store server and the sync client.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for fields they set):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetServerConfig] and [GetClientConfig], which
// return validated role views of [StructuredConfig].
package config
