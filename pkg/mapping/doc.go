// Package mapping holds the per-class identifier mapping model used by the
// remapping passes.
//
// A ClassMap records one class of an analysed binary: its internal-form name,
// the obfuscated name it is currently known by (if any), its superclass and
// interfaces, and the fields and methods discovered for it. Passes query a
// ClassMap by full member identity ("owner/name(desc)") or by short identity
// ("name(desc)") and record rename decisions on the member records.
//
// Concurrency: a ClassMap performs no locking. One goroutine at a time may
// mutate a given ClassMap; callers sharing one across goroutines must
// serialise access themselves.
//
// Annotation lists are always owned by the caller. HasAnnotation and
// RemoveAnnotation borrow the list for the duration of the call only.
package mapping
