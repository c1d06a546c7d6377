package orchestrator

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/declaration"
)

// Declarations resolves included targets. *registry.Registry implements it.
type Declarations interface {
	Lookup(target string) (*declaration.Declaration, bool)
}

// UnknownDeclarationError is returned in strict mode when an include names a
// target that has no declaration.
type UnknownDeclarationError struct {
	Target     string
	IncludedBy string
}

func (e *UnknownDeclarationError) Error() string {
	return fmt.Sprintf("declaration %q includes %q, which has no declaration", e.IncludedBy, e.Target)
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithStrict makes includes of unknown targets an error.
func WithStrict(strict bool) Option {
	return func(r *Recorder) { r.strict = strict }
}

// WithPathFinder sets the PathFinder used for resolve_package_path actions.
// Without one, paths are recorded as empty.
func WithPathFinder(f PathFinder) Option {
	return func(r *Recorder) { r.finder = f }
}

// Recorder implements declaration.Orchestrator by recording a Plan. A
// Recorder serves a single run and is not safe for concurrent use.
type Recorder struct {
	env    declaration.Environment
	decls  Declarations
	finder PathFinder
	strict bool

	plan    Plan
	linked  map[string]struct{}
	applied map[string]struct{}
	sources []string
}

var _ declaration.Orchestrator = (*Recorder)(nil)

// NewRecorder creates a Recorder that evaluates included declarations
// against env.
func NewRecorder(env declaration.Environment, decls Declarations, opts ...Option) *Recorder {
	r := &Recorder{
		env:     env,
		decls:   decls,
		linked:  make(map[string]struct{}),
		applied: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply generates the given revision (0 = latest) of decl into the plan.
func (r *Recorder) Apply(ctx context.Context, decl *declaration.Declaration, revision int, dependenciesOnly bool) error {
	rev, err := decl.Revision(revision)
	if err != nil {
		return err
	}
	r.plan.Target = decl.Target
	r.plan.Revision = rev.Number
	r.plan.DependenciesOnly = dependenciesOnly
	r.applied[decl.Target] = struct{}{}

	r.push(decl.Target)
	defer r.pop()
	return decl.GenerateRevision(ctx, r.env, r, rev.Number, dependenciesOnly)
}

// Plan returns a copy of the plan recorded so far.
func (r *Recorder) Plan() *Plan {
	p := r.plan
	p.Links = slices.Clone(r.plan.Links)
	p.Paths = slices.Clone(r.plan.Paths)
	p.Included = slices.Clone(r.plan.Included)
	p.Unresolved = slices.Clone(r.plan.Unresolved)
	p.Entries = slices.Clone(r.plan.Entries)
	if p.Links == nil {
		p.Links = []string{}
	}
	if p.Entries == nil {
		p.Entries = []Entry{}
	}
	return &p
}

// RegisterLink implements declaration.Orchestrator.
func (r *Recorder) RegisterLink(ctx context.Context, names []string) error {
	r.record(declaration.LinkLibrary(names...))
	for _, name := range names {
		if _, seen := r.linked[name]; seen {
			continue
		}
		r.linked[name] = struct{}{}
		r.plan.Links = append(r.plan.Links, name)
	}
	ctxlog.FromContext(ctx).Debug("Libraries linked.", "source", r.source(), "libraries", names)
	return nil
}

// ResolvePath implements declaration.Orchestrator.
func (r *Recorder) ResolvePath(ctx context.Context, pkg string) error {
	var path string
	if r.finder != nil {
		var err error
		path, err = r.finder.Find(ctx, pkg)
		if err != nil {
			return err
		}
	}
	entry := r.record(declaration.ResolvePackagePath(pkg))
	entry.Path = path
	r.plan.Paths = append(r.plan.Paths, ResolvedPath{Package: pkg, Path: path})
	ctxlog.FromContext(ctx).Debug("Package path resolved.", "source", r.source(), "package", pkg, "path", path)
	return nil
}

// ApplyDependencyGroup implements declaration.Orchestrator. The included
// declaration is generated in full mode on the same recorder. A target is
// applied at most once per run.
func (r *Recorder) ApplyDependencyGroup(ctx context.Context, group string) error {
	logger := ctxlog.FromContext(ctx)
	if _, done := r.applied[group]; done {
		logger.Debug("Declaration already applied.", "source", r.source(), "target", group)
		return nil
	}
	r.applied[group] = struct{}{}

	decl, ok := r.decls.Lookup(group)
	if !ok {
		if r.strict {
			return &UnknownDeclarationError{Target: group, IncludedBy: r.source()}
		}
		entry := r.record(declaration.IncludeDependencyGroup(group))
		entry.Unresolved = true
		r.plan.Unresolved = append(r.plan.Unresolved, group)
		logger.Warn("Included declaration not found.", "source", r.source(), "target", group)
		return nil
	}

	r.record(declaration.IncludeDependencyGroup(group))
	r.plan.Included = append(r.plan.Included, group)

	r.push(group)
	defer r.pop()
	return decl.Generate(ctxlog.WithAttrs(ctx, "included", group), r.env, r, false)
}

// record appends an entry for action and returns it for further detail.
func (r *Recorder) record(action declaration.Action) *Entry {
	r.plan.Entries = append(r.plan.Entries, Entry{Action: action, Source: r.source()})
	return &r.plan.Entries[len(r.plan.Entries)-1]
}

func (r *Recorder) source() string {
	if len(r.sources) == 0 {
		return ""
	}
	return r.sources[len(r.sources)-1]
}

func (r *Recorder) push(target string) { r.sources = append(r.sources, target) }

func (r *Recorder) pop() { r.sources = r.sources[:len(r.sources)-1] }
