// Package language normalizes the transcription language setting. Users may
// write "it", "ita" or "italian"; the engines expect the two-letter ISO 639-1
// form, and an empty value means the engine detects the language itself.
package language
