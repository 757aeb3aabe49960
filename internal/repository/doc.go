// Package repository defines the snapshot store used to save and reload
// graphs by name.
//
// The sqlite subpackage implements SnapshotStore on SQLite in WAL mode. Each
// snapshot row holds the graph as JSON plus node and edge counts, and a side
// table records how many nodes of each type it contains so snapshots can be
// listed by node type. The schema is migrated on open.
package repository
