// Package files serves a directory tree of text documents as a corpus.
//
// Markdown documents may carry YAML front matter; its title, tags and
// created/date fields feed the document metadata, and it is stripped from
// the searchable content. Inline #tags in the body are collected as well.
package files
