package chip8

/// ToneFrequency is the pitch (in Hz) of the reference tone hosts play
/// while the tone gate is open.
///
const ToneFrequency = 440

/// Speaker is implemented by hosts that can play the reference tone.
///
type Speaker interface {
	Play()
	Stop()
}

/// ToneGate is the on/off contract between the sound timer and the host
/// audio. It tells the speaker about transitions only.
///
type ToneGate struct {
	active  bool
	speaker Speaker
}

/// SetActive opens or closes the gate. Setting the current state again
/// does nothing.
///
func (g *ToneGate) SetActive(on bool) {
	if on == g.active {
		return
	}

	g.active = on

	if g.speaker == nil {
		return
	}

	if on {
		g.speaker.Play()
	} else {
		g.speaker.Stop()
	}
}

// Active returns true while the tone should be heard.
func (g *ToneGate) Active() bool {
	return g.active
}
