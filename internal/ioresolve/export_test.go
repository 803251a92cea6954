package ioresolve

// SetBeforeInsert installs a hook that runs before a new row is
// inserted.
func SetBeforeInsert(r *Resolver, f func(table string)) {
	r.beforeInsert = f
}
