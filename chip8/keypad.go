package chip8

/// KeyCount is the number of keys on the CHIP-8 hex keypad.
///
const KeyCount = 16

/// Keypad latches which of the 16 logical keys are held down. It can also
/// be armed to catch the next key press, which is how LD Vx, K resumes.
///
type Keypad struct {
	keys [KeyCount]bool

	/// armed is true while waiting for the next key press.
	///
	armed bool
}

/// SetPressed updates the state of a key. It returns true if the keypad
/// was armed and this press resolved the wait. Unknown keys are ignored.
///
func (k *Keypad) SetPressed(key uint, pressed bool) bool {
	if key >= KeyCount {
		return false
	}

	k.keys[key] = pressed

	if pressed && k.armed {
		k.armed = false
		return true
	}

	return false
}

/// IsPressed returns true if the key is held down.
///
func (k *Keypad) IsPressed(key uint) bool {
	return key < KeyCount && k.keys[key]
}

/// AwaitNextKey arms the keypad so the next key press is reported by
/// SetPressed. Arming twice is the same as arming once.
///
func (k *Keypad) AwaitNextKey() {
	k.armed = true
}

// Waiting returns true while the keypad is armed.
func (k *Keypad) Waiting() bool {
	return k.armed
}

// Reset releases all keys and disarms the keypad.
func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
	k.armed = false
}
