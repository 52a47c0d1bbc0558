package main

import (
	"flowboard/internal/nodes"
	"flowboard/internal/registry"
)

// buildRegistry wires the built-in node catalog into a fresh registry. A
// host embedding flowboard as a library would register its own node types
// here too; the CLI only ever needs the built-ins.
func buildRegistry() *registry.GlobalNodeRegistry {
	reg := registry.New()
	for typeID, factory := range nodes.Core {
		reg.RegisterNodeType(typeID, factory)
	}
	return reg
}
