// Package episode derives episode metadata from transcript filenames and
// renders the markdown section each episode contributes to the merged
// document.
//
// Filenames follow the "[YYYYMMDD] Title.ext" convention produced by the
// feed fetcher. Files without the date tag are still accepted: their whole
// stem becomes the title and no publication line is written.
package episode
