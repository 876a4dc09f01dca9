package model

import "github.com/ppiankov/releasediff/internal/document"

// ChangeEntry is one classified section of one release note
type ChangeEntry struct {
	ID            string         // Unique per entry: "<releaseID>/<section index>"
	ReleaseID     string         // Release the section was taken from
	TagName       string         // Tag of the origin release
	IsDraft       bool           // Origin release is a draft
	IsPrerelease  bool           // Origin release is a pre-release
	Category      Category       // Semantic group
	Title         string         // Category title
	OriginalTitle string         // Section title as written
	Document      *document.Node // Section body as a standalone document
}
