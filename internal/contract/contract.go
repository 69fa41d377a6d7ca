// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/wikireflex/reflex/schema"
)

// Store defines the retrieval operations the core composes queries against.
// This allows the query and reconstruction logic to be tested without a
// real database. Each method executes a single read and returns typed rows
// in the ordering the request asked for; failures surface as one opaque
// error value and are never retried at this layer.
type Store interface {
	// --- Edit counts ---

	// Edits executes a composed edit-count retrieval.
	Edits(ctx context.Context, req *schema.EditRequest) ([]schema.EditRow, error)

	// UsersByNameFold looks up user identities matching any of the given
	// names case-insensitively.
	UsersByNameFold(ctx context.Context, names []string) ([]schema.UserIdentity, error)

	// --- Reverts ---

	// Reverts returns raw revert events within the request window in
	// ascending timestamp order.
	Reverts(ctx context.Context, req *schema.RevertRequest) ([]schema.RevertRow, error)

	// --- Projects ---

	// Projects lists projects, optionally filtered by a title substring.
	Projects(ctx context.Context, titleFilter string) ([]schema.Project, error)

	// ProjectPages lists the pages in the scope of one project.
	ProjectPages(ctx context.Context, req *schema.ProjectPagesRequest) ([]schema.ProjectPage, error)

	// ProjectPageIDs resolves a project title to the page ids of the
	// project page and all of its subpages in the project namespace.
	ProjectPageIDs(ctx context.Context, project string) ([]int64, error)

	// --- Activity snapshots ---

	// LatestActivityWeek returns the most recent snapshot week recorded.
	LatestActivityWeek(ctx context.Context) (int64, error)

	// ProjectActivity returns the grouped activity rows of one snapshot.
	ProjectActivity(ctx context.Context, req *schema.ActivityRequest) ([]schema.ActivityRow, error)

	// ActiveProjectPages ranks one project's pages by snapshot edit count.
	ActiveProjectPages(ctx context.Context, req *schema.ActivePagesRequest) ([]schema.ActivePageRow, error)

	// --- Membership ledger ---

	// LinkEvents returns the link ledger for the given project pages up to
	// and including endWeek, in strictly ascending timestamp order.
	LinkEvents(ctx context.Context, pageIDs []int64, endWeek int) ([]schema.LinkEvent, error)

	// --- Anonymous editors ---

	// AnonCoords returns anonymous editors of a page with coordinates.
	AnonCoords(ctx context.Context, req *schema.AnonCoordsRequest) ([]schema.AnonCoordRow, error)

	// Close closes the underlying connection.
	Close() error
}
