package audio

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	toneHz     = 880
	beepLen    = 350 * time.Millisecond
	gapLen     = 650 * time.Millisecond
)

// Global audio context singleton; oto allows only one per process.
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// Player loops the alarm tone until stopped.
type Player struct {
	stopChan chan struct{}
	stopOnce sync.Once
}

func initAudioContext() {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
	})
}

// PlayAlarm starts the looping alarm tone and returns a handle to stop
// it. Returns nil when no audio device is available; callers treat that
// as a silent alert, not a failure.
func PlayAlarm() *Player {
	initAudioContext()

	if !audioCtxReady || globalAudioCtx == nil {
		log.Printf("Audio context not ready, alert will be silent")
		return nil
	}

	p := &Player{stopChan: make(chan struct{})}

	go func() {
		cycle := alarmCycle()
		for {
			player := globalAudioCtx.NewPlayer(bytes.NewReader(cycle))
			player.Play()

			for player.IsPlaying() {
				select {
				case <-p.stopChan:
					player.Close()
					return
				case <-time.After(10 * time.Millisecond):
				}
			}
			if err := player.Close(); err != nil {
				log.Printf("Failed to close audio player: %v", err)
			}

			select {
			case <-p.stopChan:
				return
			default:
			}
		}
	}()

	return p
}

// Stop stops the audio playback. Safe on a nil player and safe to call
// more than once.
func (p *Player) Stop() {
	if p == nil {
		return
	}
	p.stopOnce.Do(func() { close(p.stopChan) })
}

// alarmCycle synthesizes one beep-plus-silence cycle of PCM so no audio
// asset needs to ship with the binary.
func alarmCycle() []byte {
	beepSamples := int(float64(sampleRate) * beepLen.Seconds())
	gapSamples := int(float64(sampleRate) * gapLen.Seconds())

	buf := &bytes.Buffer{}
	for i := 0; i < beepSamples; i++ {
		// Short attack/release ramps avoid clicks at the beep edges.
		amp := 0.6
		if ramp := beepSamples / 20; ramp > 0 {
			if i < ramp {
				amp *= float64(i) / float64(ramp)
			} else if left := beepSamples - i; left < ramp {
				amp *= float64(left) / float64(ramp)
			}
		}
		sample := amp * math.Sin(2*math.Pi*toneHz*float64(i)/sampleRate)
		binary.Write(buf, binary.LittleEndian, int16(sample*math.MaxInt16))
	}
	for i := 0; i < gapSamples; i++ {
		binary.Write(buf, binary.LittleEndian, int16(0))
	}

	return buf.Bytes()
}
