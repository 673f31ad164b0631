// Package whisperx runs WhisperX through uvx as a transcription engine.
//
// Each call writes WhisperX's JSON output into a private scratch directory,
// loads the segments, and removes the directory. The index URLs and compute
// type depend on whether the probed device is CUDA.
package whisperx
