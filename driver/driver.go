// Package driver is the C9 Analyze Driver: it orchestrates the
// Declaration (C4), Doc (C5), Member and Resolve passes over a set of
// dirty files into a new consistent C3 snapshot (spec.md §4.10).
//
// The staged, early-continuing shape (one method per pass, `Run`
// driving them in a fixed order) is grounded on funxy's
// internal/analyzer/analyzer.go `Analyze` method (`AnalyzeNaming` ->
// `AnalyzeHeaders` -> `AnalyzeInstances` -> `AnalyzeBodies`) and its
// internal/pipeline/pipeline.go `Pipeline.Run` ("continue on errors to
// collect diagnostics from all stages").
package driver

import (
	"context"

	"github.com/google/uuid"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/declanalyzer"
	"github.com/emmylua-go/luacore/diagnostics"
	"github.com/emmylua-go/luacore/docanalyzer"
	"github.com/emmylua-go/luacore/generic"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/infer"
	"github.com/emmylua-go/luacore/luatype"
	"github.com/emmylua-go/luacore/subtype"
)

// SessionID tags one analysis run, attached to a diagnostics batch and
// to ModuleInfo.WorkspaceId (SPEC_FULL.md §3.1) so a collaborator can
// tell a stale incremental run apart from the current one. It plays no
// role in any of C1's deterministic, position-derived ids.
type SessionID uuid.UUID

func NewSessionID() SessionID { return SessionID(uuid.New()) }

func (s SessionID) String() string { return uuid.UUID(s).String() }

// Driver bundles the shared store with the collaborators (C6/C7/C8)
// the Member and Resolve passes need to actually evaluate types,
// rather than just record doc-declared ones.
type Driver struct {
	Store   *index.Store
	Checker *subtype.Checker
	Infer   *infer.Inferencer
	Generic *generic.Engine
}

// New builds a Driver sharing one Store across its C6/C7/C8
// collaborators, the same construction order infer.New itself performs
// internally for its own generic.Engine.
func New(store *index.Store, version infer.RuntimeVersion, strict bool) *Driver {
	checker := subtype.New(store)
	inferencer := infer.New(store, checker, version, strict)
	return &Driver{Store: store, Checker: checker, Infer: inferencer, Generic: inferencer.Engine()}
}

// FileSource is one dirty file's current syntax tree, supplied by the
// caller for each Run (the core never parses text itself, spec.md §6).
type FileSource struct {
	File  ids.FileId
	Chunk *astshape.Block
}

// Result is one Run's output: the diagnostics collected across every
// pass plus the session that produced them.
type Result struct {
	Session SessionID
	Diags   *diagnostics.Collector
}

// Run executes spec.md §4.10's full pipeline over sources: remove each
// dirty file from every sub-index, then Declaration, then Doc, then
// Member, then a bounded fix-point Resolve pass. Cancellation is
// checked between files within each phase (spec.md §5); a cancelled
// phase leaves no torn state because the only mutations that have
// landed are `index.Remove`-reversible per-file contributions, and the
// caller re-running Remove on an aborted file's id restores that
// invariant.
func (d *Driver) Run(ctx context.Context, sources []FileSource) Result {
	session := NewSessionID()
	diags := diagnostics.NewCollector()

	for _, src := range sources {
		d.Store.Remove(src.File)
	}

	for _, src := range sources {
		if ctx.Err() != nil {
			return Result{Session: session, Diags: diags}
		}
		declanalyzer.New(src.File, d.Store).Analyze(src.Chunk)
	}

	for _, src := range sources {
		if ctx.Err() != nil {
			return Result{Session: session, Diags: diags}
		}
		fileDiags := diagnostics.NewCollector()
		docanalyzer.New(src.File, d.Store, fileDiags).Analyze(src.Chunk)
		diags.AddAll(fileDiags.Errors())
	}

	// Flow assertions (@cast/@as) are recorded directly into
	// store.Flow by the Doc pass above; C6's narrowing overlay
	// (Inferencer.applyFlowNarrowing) consults them lazily at read
	// time, so there is no separate eager Flow phase to run here.

	for _, src := range sources {
		if ctx.Err() != nil {
			return Result{Session: session, Diags: diags}
		}
		d.runMemberPass(src.File, src.Chunk)
	}

	d.runResolvePass(ctx, sources)

	return Result{Session: session, Diags: diags}
}
