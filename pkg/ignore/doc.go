// Package ignore compiles the two rule families used to select paths for export:
// gitignore-style exclusion rules (ExcludeSet) and glob allow-list rules (IncludeSet).
//
// All matching is relative to the export root and uses forward-slash paths
// regardless of the host separator. Compilation never fails; malformed
// patterns are kept and simply never match.
package ignore
