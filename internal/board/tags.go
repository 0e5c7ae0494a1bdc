package board

// Tags is an insertion-ordered set of game metadata such as "Board" or
// "White".
type Tags struct {
	keys   []string
	values map[string]string
}

// NewTags creates an empty tag set.
func NewTags() *Tags {
	return &Tags{values: make(map[string]string)}
}

// Set stores value under key, keeping the original position of an existing key.
func (t *Tags) Set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value stored under key.
func (t *Tags) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Delete removes key.
func (t *Tags) Delete(key string) {
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (t *Tags) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of tags.
func (t *Tags) Len() int {
	return len(t.keys)
}
