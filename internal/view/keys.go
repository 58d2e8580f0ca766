package view

type keyListener struct {
	id int
	fn func(key string) bool
}

// KeyListeners is the global key hook: every registered listener sees every
// key that the focused widget did not consume.
type KeyListeners struct {
	next int
	ls   []keyListener
}

// Add registers fn; the returned func unregisters it.
func (k *KeyListeners) Add(fn func(key string) bool) (remove func()) {
	k.next++
	id := k.next
	k.ls = append(k.ls, keyListener{id: id, fn: fn})
	return func() {
		for i, l := range k.ls {
			if l.id == id {
				k.ls = append(k.ls[:i:i], k.ls[i+1:]...)
				return
			}
		}
	}
}

// Dispatch offers key to all listeners and reports whether any handled it.
func (k *KeyListeners) Dispatch(key string) bool {
	handled := false
	ls := append([]keyListener(nil), k.ls...)
	for _, l := range ls {
		if l.fn(key) {
			handled = true
		}
	}
	return handled
}

func (k *KeyListeners) Len() int { return len(k.ls) }
