// Package notes is the local object model of the demo client: folders and
// the notes filed in them.
//
// [Store] keeps the objects in memory, persists them through a
// store.FileStorage and implements the sync engine's EntityStore, so the
// engine can create, look up and hydrate notes while the user edits them.
package notes
