// Package services implements CampJournal's business operations on top of
// the repository layer: accounts, profiles, campgrounds, the journal with
// its draft sharing workflow, follows, and photo storage.
//
// Services are stateless apart from their injected collaborators and are
// safe for concurrent use.
package services
