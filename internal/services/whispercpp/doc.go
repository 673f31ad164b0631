// Package whispercpp runs the whisper.cpp command line tool as a
// transcription engine.
//
// Models are ggml files named ggml-<model>.bin inside the configured models
// directory. whisper-cli writes its JSON result next to the -of prefix; each
// call uses a private scratch directory that is removed afterwards.
package whispercpp
