// Package enum provides a global registry for normalizing enumerated spec values.
//
// Spec files are written by hand, so the same concept shows up as "lin",
// "Linear" or "LINEAR". Packages register alias mappings once and normalize
// user values before interpreting them.
//
// # Usage
//
// Register aliases for a field:
//
//	enum.Register("sweep", "type", map[string]string{
//	    "lin":    "LINEAR",
//	    "linear": "LINEAR",
//	    "dec":    "LOG",
//	})
//
// Or register multiple fields at once:
//
//	enum.RegisterBatch("testbench", map[string]map[string]string{
//	    "kind": {"transient": "tran", "tran": "tran"},
//	})
//
// Normalize a single value or every registered field of a mapping:
//
//	typ, ok := enum.Normalize("sweep", "type", "Lin")   // "LINEAR", true
//	sweep := enum.NormalizeMap("sweep", rawSweepOptions)
//
// Lookups are case-insensitive and ignore surrounding whitespace. Unknown
// values are returned unchanged together with ok == false.
//
// # Thread Safety
//
// The registry is guarded by a sync.RWMutex and is safe for concurrent use.
package enum
