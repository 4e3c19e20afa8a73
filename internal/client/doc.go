// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the demo notes client.
//
// It wires the local notes store, the SQLite sync state, the HTTP remote
// store and the sync engine into one process lifecycle driven by the
// terminal UI.
package client
