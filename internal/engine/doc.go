// Package engine is the rule-generation core: it turns parameter entries
// into parameter rules and assembles them into a rule document. It never
// imports app, cli, writers, output or patch; keep it domain-only.
//
// External outputs must not depend on the internal shape here; pkg/api
// holds the stable wire types.
package engine
