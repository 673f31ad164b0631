// Package services holds what the external tool integrations share: error
// markers and the Wrap helper that tags a failure with the component and
// operation that produced it.
//
// Subpackages wrap one external program each (whisper.cpp, WhisperX). They
// keep command construction separate from execution so tests can inject a
// runner instead of spawning processes.
package services
