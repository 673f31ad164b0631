// Package ffmpeg converts episode audio into the waveform the speech engines
// expect: mono, 16 kHz, signed 16-bit PCM in a WAV container.
package ffmpeg
