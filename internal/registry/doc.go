// Package registry provides the central lookup of dependency declarations.
//
// The Registry maps a library target (e.g. "st_facilities") to its
// declaration. It is populated at startup from built-in modules and from
// declaration files, then validated so that broken declarations are reported
// before any target is generated. The orchestrator resolves
// include_dependency_group actions through it.
package registry
