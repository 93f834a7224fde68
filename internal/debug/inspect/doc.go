// Package inspect builds the navigable variable tree a debugger front end
// displays, on top of the formatter's summaries and child providers.
//
// Each expandable variable is assigned a variables reference, in the manner
// of the Debug Adapter Protocol. The reference owns the provider created for
// that value, so expanding the same variable twice reuses its decoded
// layout. When the target stops again the host calls Refresh: every live
// provider recomputes its layout from target memory and cached children are
// dropped.
//
// An Inspector is driven from the host's control thread and is not safe for
// concurrent use.
package inspect
