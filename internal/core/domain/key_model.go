package domain

import "strings"

// KeyEntry is a key held by the vault. Mnemonic and SecretKey are empty for
// watch-only entries. The fingerprint identifies the entry in the vault.
type KeyEntry struct {
	Name        string
	Mnemonic    string
	SecretKey   string
	PublicKey   string
	Fingerprint uint32
}

func (k KeyEntry) IsWatchOnly() bool {
	return len(k.Mnemonic) <= 0 && len(k.SecretKey) <= 0
}

func (k KeyEntry) validate() error {
	if len(strings.TrimSpace(k.Name)) <= 0 {
		return ErrEmptyKeyName
	}
	if len(k.PublicKey) <= 0 {
		return ErrMissingPublicKey
	}
	return nil
}

// KeyList is the content of the vault: the ordered list of keys and the
// optional active selection. Transitions never leave ActiveFingerprint
// pointing to an absent entry.
type KeyList struct {
	ActiveFingerprint *uint32
	Keys              []KeyEntry
}

// NewKeyList returns an empty key list with no active selection.
func NewKeyList() *KeyList {
	return &KeyList{Keys: []KeyEntry{}}
}

// Add appends the entry to the list and, if makeActive is true, selects it.
// The list is left untouched if the fingerprint is already present.
func (l *KeyList) Add(entry KeyEntry, makeActive bool) error {
	if err := entry.validate(); err != nil {
		return err
	}
	if l.Has(entry.Fingerprint) {
		return ErrDuplicateFingerprint
	}

	l.Keys = append(l.Keys, entry)
	if makeActive {
		fingerprint := entry.Fingerprint
		l.ActiveFingerprint = &fingerprint
	}
	return nil
}

// Delete removes the entry with the given fingerprint and clears the active
// selection if it pointed to it. It returns whether an entry was removed and
// whether that entry was the active one.
func (l *KeyList) Delete(fingerprint uint32) (removed, wasActive bool) {
	i := l.indexOf(fingerprint)
	if i < 0 {
		return false, false
	}

	l.Keys = append(l.Keys[:i], l.Keys[i+1:]...)
	if l.IsActive(fingerprint) {
		l.ActiveFingerprint = nil
		wasActive = true
	}
	return true, wasActive
}

// Rename changes the display name of the entry with the given fingerprint.
// It's a no-op returning false if the fingerprint is not in the list.
func (l *KeyList) Rename(fingerprint uint32, name string) (bool, error) {
	if len(strings.TrimSpace(name)) <= 0 {
		return false, ErrEmptyKeyName
	}
	i := l.indexOf(fingerprint)
	if i < 0 {
		return false, nil
	}
	l.Keys[i].Name = name
	return true, nil
}

// SetActive selects the entry with the given fingerprint, or clears the
// selection if fingerprint is nil.
func (l *KeyList) SetActive(fingerprint *uint32) error {
	if fingerprint == nil {
		l.ActiveFingerprint = nil
		return nil
	}
	if !l.Has(*fingerprint) {
		return ErrKeyNotFound
	}
	fp := *fingerprint
	l.ActiveFingerprint = &fp
	return nil
}

// Find returns a copy of the entry with the given fingerprint.
func (l *KeyList) Find(fingerprint uint32) (*KeyEntry, bool) {
	i := l.indexOf(fingerprint)
	if i < 0 {
		return nil, false
	}
	entry := l.Keys[i]
	return &entry, true
}

func (l *KeyList) Has(fingerprint uint32) bool {
	return l.indexOf(fingerprint) >= 0
}

func (l *KeyList) IsActive(fingerprint uint32) bool {
	return l.ActiveFingerprint != nil && *l.ActiveFingerprint == fingerprint
}

// Active returns a copy of the active entry, if any.
func (l *KeyList) Active() (*KeyEntry, bool) {
	if l.ActiveFingerprint == nil {
		return nil, false
	}
	return l.Find(*l.ActiveFingerprint)
}

// DropStaleActive clears an active selection that doesn't resolve to any
// entry and reports whether it did so.
func (l *KeyList) DropStaleActive() bool {
	if l.ActiveFingerprint == nil || l.Has(*l.ActiveFingerprint) {
		return false
	}
	l.ActiveFingerprint = nil
	return true
}

// Clone returns a deep copy of the list.
func (l *KeyList) Clone() *KeyList {
	clone := &KeyList{Keys: make([]KeyEntry, len(l.Keys))}
	copy(clone.Keys, l.Keys)
	if l.ActiveFingerprint != nil {
		fp := *l.ActiveFingerprint
		clone.ActiveFingerprint = &fp
	}
	return clone
}

func (l *KeyList) indexOf(fingerprint uint32) int {
	for i, k := range l.Keys {
		if k.Fingerprint == fingerprint {
			return i
		}
	}
	return -1
}
