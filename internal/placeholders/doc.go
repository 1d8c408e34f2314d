// Package placeholders resolves ${name} references in merged manifest
// attribute values and injects direct property overrides.
//
// Values come from three layers, later layers winning:
//  1. Defaults derived from the merged document (applicationId = package)
//  2. A params file in .env format (--params-file)
//  3. Individual key=value pairs (--param)
//
// Every substitution is recorded in the merging report as an INJECTED
// action; a reference with no value is an ERROR entry, so one run reports
// every unresolved placeholder at once.
package placeholders
