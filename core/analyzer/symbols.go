package analyzer

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"infra-review/adapters/terraform/hcl"
)

// SymbolTable indexes every identifier declared across a file batch.
// Identifiers are global within the batch: there is no module-scoped
// shadowing. The table is rebuilt per analysis run and must be fully
// populated before any check consumes it.
type SymbolTable struct {
	// Resources holds "type.name" keys
	Resources map[string]bool

	// DataSources holds "data.type.name" keys
	DataSources map[string]bool

	// Modules holds "module.name" keys
	Modules map[string]bool

	// Locals holds "local.name" keys
	Locals map[string]bool

	// ModuleVars maps a directory prefix (empty for root files) to the
	// variables declared there and whether each has a default.
	ModuleVars map[string]map[string]bool
}

// BuildSymbols walks every parsed file once and collects all declared
// identifiers.
func BuildSymbols(parsed map[string]*hcl.BlockTree) *SymbolTable {
	st := &SymbolTable{
		Resources:   make(map[string]bool),
		DataSources: make(map[string]bool),
		Modules:     make(map[string]bool),
		Locals:      make(map[string]bool),
		ModuleVars:  make(map[string]map[string]bool),
	}

	for _, filename := range sortedFiles(parsed) {
		tree := parsed[filename]

		for _, rb := range tree.Resources {
			st.Resources[rb.Type+"."+rb.Name] = true
		}
		for _, db := range tree.DataSources {
			st.DataSources["data."+db.Type+"."+db.Name] = true
		}
		for _, mb := range tree.Modules {
			st.Modules["module."+mb.Name] = true
		}
		for _, body := range tree.Locals {
			for _, name := range body.Keys() {
				st.Locals["local."+name] = true
			}
		}

		dir := dirPrefix(filename)
		for _, vb := range tree.Variables {
			if st.ModuleVars[dir] == nil {
				st.ModuleVars[dir] = make(map[string]bool)
			}
			st.ModuleVars[dir][vb.Name] = vb.Body.Has("default")
		}
	}

	return st
}

// dirPrefix is everything before the final path separator, empty for a
// root-level file. Paths are slash-separated map keys, never real
// filesystem paths.
func dirPrefix(filename string) string {
	if i := strings.LastIndex(filename, "/"); i >= 0 {
		return filename[:i]
	}
	return ""
}

// sortedFiles returns the batch filenames in sorted order so every
// pass over the map is deterministic.
func sortedFiles(parsed map[string]*hcl.BlockTree) []string {
	names := lo.Keys(parsed)
	sort.Strings(names)
	return names
}
