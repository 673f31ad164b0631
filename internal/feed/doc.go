// Package feed downloads podcast episodes from an RSS or Atom feed into the
// audio directory, naming each file "[YYYYMMDD] Title.mp3" so the rest of the
// pipeline can recover the title and publication date.
//
// Files that already exist are skipped, which makes the fetcher resumable in
// the same way as the transcriber. Downloads land in a temporary file and
// are renamed into place only when complete.
package feed
