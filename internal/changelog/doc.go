// Package changelog links issue references in a changelog document.
//
// Processing happens in three stages over the in-memory document:
//
//   - Rewrite turns bare references such as "(#123)" into reference-style
//     links "([#123][])".
//   - Collect scans the rewritten text for "[#123][]" markers and returns the
//     unique issue ids in ascending numeric order.
//   - UpdateDefinitions removes any existing "[#123]: ..." line for each id
//     and appends a fresh definition pointing at the issue tracker.
//
// Process runs the stages in order. Every stage is a pure function of its
// input, so running Process on its own output returns it unchanged:
//
//	res := changelog.Process(doc, tracker.MustParse(tracker.Default), changelog.Options{})
//	if res.Changed {
//		_ = changelog.Save(path, res.Document)
//	}
//
// UpdateFile wraps Load, Process and Save. The file is written once, with an
// atomic rename, and only if the content changed.
//
// Verify parses the result with goldmark and reports references that do not
// resolve, duplicated or mismatched definitions, and leftover bare references.
package changelog
