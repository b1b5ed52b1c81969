// Package cdms reads and writes the CDMS cache format.
//
// A CDMS file holds exactly one commit as marker-delimited lines:
//
//	[CDMS::Start::Commit(<id>,<date>)]
//
//	[CDMS::Start::CommitHeader]
//	<header line>*
//	[CDMS::End::CommitHeader]
//
//	[CDMS::Start::ChangedArtifact(<path>,<name>)]
//	[CDMS::Start::DiffHeader]
//	<diff header line>*
//	[CDMS::End::DiffHeader]
//	[CDMS::Start::Content]
//	<content line>*
//	[CDMS::End::Content]
//	[CDMS::End::ChangedArtifact(<path>,<name>)]
//
//	[CDMS::End::Commit(<id>,<date>)]
//
// Payload lines are written verbatim. A payload line that starts with a
// marker corrupts the file on read-back; existing caches depend on this
// layout, so no escaping is applied.
//
// Files are named Commit_<id>.cdms.
package cdms
