// Package tts generates pronunciation audio for study items through a
// text-to-speech provider.
package tts

import "context"

// Provider turns text into encoded audio.
type Provider interface {
	// Synthesize returns the audio for req.Text, encoded as mp3.
	Synthesize(ctx context.Context, req Request) (*Audio, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one piece of text to speak.
type Request struct {
	Text string

	// Lang is the language of Text ("es" or "de"). Providers with
	// multilingual voices may ignore it.
	Lang string
}

// Audio is the synthesized output.
type Audio struct {
	Data  []byte
	Model string
}
