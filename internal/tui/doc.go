// Package tui is the terminal front end of the demo notes client.
package tui
