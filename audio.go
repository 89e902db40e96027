package main

import (
	"fmt"

	"github.com/massung/chip-8/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	// SampleRate of the audio device.
	SampleRate = 22050

	// Amplitude of the signed 8-bit square wave.
	Amplitude = 32

	// queued samples kept ahead of the device while the tone plays
	audioLead = SampleRate / 15
)

/// Speaker plays the CHIP-8 tone on an SDL audio device. It is attached
/// to the virtual machine's tone gate.
///
type Speaker struct {
	dev   sdl.AudioDeviceID
	on    bool
	phase int
	buf   []byte
}

/// OpenSpeaker opens the default audio device for a mono 8-bit stream.
///
func OpenSpeaker() (*Speaker, error) {
	spec := sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_S8,
		Channels: 1,
		Samples:  512,
	}

	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	// the device stays unpaused; silence is an empty queue
	sdl.PauseAudioDevice(dev, false)

	return &Speaker{
		dev: dev,
		buf: make([]byte, audioLead),
	}, nil
}

// Play starts the tone.
func (s *Speaker) Play() {
	s.on = true
	s.Refresh()
}

// Stop silences the tone right away.
func (s *Speaker) Stop() {
	s.on = false
	sdl.ClearQueuedAudio(s.dev)
}

/// Refresh tops up the audio queue while the tone is playing. Call it
/// once per frame.
///
func (s *Speaker) Refresh() {
	if !s.on {
		return
	}

	queued := int(sdl.GetQueuedAudioSize(s.dev))
	if queued >= audioLead {
		return
	}

	n := audioLead - queued
	s.phase = SquareWave(s.buf[:n], s.phase, SampleRate, chip8.ToneFrequency)

	sdl.QueueAudio(s.dev, s.buf[:n])
}

// Close releases the audio device.
func (s *Speaker) Close() {
	sdl.CloseAudioDevice(s.dev)
}

/// SquareWave fills buf with signed 8-bit samples of a square wave at
/// freq Hz, starting at sample phase. It returns the phase to continue
/// from.
///
func SquareWave(buf []byte, phase, rate, freq int) int {
	period := rate / freq
	half := period / 2
	hi, lo := int8(Amplitude), int8(-Amplitude)

	for i := range buf {
		if phase < half {
			buf[i] = byte(hi)
		} else {
			buf[i] = byte(lo)
		}

		if phase++; phase >= period {
			phase = 0
		}
	}

	return phase
}
