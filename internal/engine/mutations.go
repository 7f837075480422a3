package engine

import "github.com/flagkit/flagkit/pkg/flagtype"

// Set assigns v to key's plain entry, creating it if absent. Fails with
// ReadOnlyComputed if key is currently computed.
func (e *Engine) Set(key string, v flagtype.Value) error {
	if err := flagtype.ValidateKey(key); err != nil {
		return err
	}
	if e.reg.IsComputed(key) {
		return flagtype.NewReadOnlyComputed(key)
	}
	old, oldPresent := e.reg.Get(key)
	ch := change{key: key, old: old, oldPresent: oldPresent, new: v, newPresent: true}
	return e.stageAndCommit(ch)
}

// Delete removes key's plain entry. Fails with ReadOnlyComputed if key is
// computed. Deleting an absent key is a no-op (empty change set).
func (e *Engine) Delete(key string) error {
	if err := flagtype.ValidateKey(key); err != nil {
		return err
	}
	if e.reg.IsComputed(key) {
		return flagtype.NewReadOnlyComputed(key)
	}
	old, oldPresent := e.reg.Get(key)
	if !oldPresent {
		return nil
	}
	ch := change{key: key, old: old, oldPresent: oldPresent, newPresent: false}
	return e.stageAndCommit(ch)
}

// Toggle flips a boolean entry, creating it as Bool(true) if absent. Fails
// with TypeMismatch if the existing entry is not a bool.
func (e *Engine) Toggle(key string) (bool, error) {
	if err := flagtype.ValidateKey(key); err != nil {
		return false, err
	}
	if e.reg.IsComputed(key) {
		return false, flagtype.NewReadOnlyComputed(key)
	}
	old, oldPresent := e.reg.Get(key)
	var newVal bool
	if !oldPresent {
		newVal = true
	} else {
		b, isBool := old.AsBool()
		if !isBool {
			return false, flagtype.NewTypeMismatch(key, flagtype.TagBool, old.Tag())
		}
		newVal = !b
	}
	ch := change{key: key, old: old, oldPresent: oldPresent, new: flagtype.Bool(newVal), newPresent: true}
	if err := e.stageAndCommit(ch); err != nil {
		return false, err
	}
	return newVal, nil
}

// Increment adds delta to a numeric entry, creating it as delta if absent.
// Fails with TypeMismatch if the existing entry is not a number.
func (e *Engine) Increment(key string, delta float64) (float64, error) {
	return e.addDelta(key, delta)
}

// Decrement subtracts delta from a numeric entry, creating it as -delta if
// absent. Fails with TypeMismatch if the existing entry is not a number.
func (e *Engine) Decrement(key string, delta float64) (float64, error) {
	return e.addDelta(key, -delta)
}

func (e *Engine) addDelta(key string, delta float64) (float64, error) {
	if err := flagtype.ValidateKey(key); err != nil {
		return 0, err
	}
	if e.reg.IsComputed(key) {
		return 0, flagtype.NewReadOnlyComputed(key)
	}
	old, oldPresent := e.reg.Get(key)
	var newVal float64
	if !oldPresent {
		newVal = delta
	} else {
		n, isNum := old.AsNum()
		if !isNum {
			return 0, flagtype.NewTypeMismatch(key, flagtype.TagNum, old.Tag())
		}
		newVal = n + delta
	}
	ch := change{key: key, old: old, oldPresent: oldPresent, new: flagtype.Num(newVal), newPresent: true}
	if err := e.stageAndCommit(ch); err != nil {
		return 0, err
	}
	return newVal, nil
}

// stageAndCommit routes a single-key staged change either into the current
// batch's aggregate (if batching) or straight through the full commit
// pipeline (phases 3-6 of spec.md §4.C).
func (e *Engine) stageAndCommit(ch change) error {
	if e.batching {
		e.stageIntoBatch(ch)
		return nil
	}
	return e.commit([]change{ch}, "", false)
}

func (e *Engine) stageIntoBatch(ch change) {
	e.applyPlainWrite(ch)

	if existing, ok := e.batchAgg[ch.key]; ok {
		existing.new = ch.new
		existing.newPresent = ch.newPresent
		return
	}
	e.batchAgg[ch.key] = &ch
	e.batchKeys = append(e.batchKeys, ch.key)
}

// applyPlainWrite writes ch's new value (or deletes) to the registry's
// plain store, without touching history, the computed graph, or the
// notification pipeline. Used both for batched writes (so later reads
// within the same batch observe earlier writes) and as the first step of
// the ordinary commit path.
func (e *Engine) applyPlainWrite(ch change) {
	if ch.newPresent {
		e.reg.SetPlain(ch.key, ch.new)
	} else {
		e.reg.DeletePlain(ch.key)
	}
}
