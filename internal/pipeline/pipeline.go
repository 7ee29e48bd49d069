// Package pipeline drives batch processing of executable images:
// metadata downgrade, fake signing, container unwrapping, and the
// follow-up libc compatibility pass.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/format"
	"github.com/psxtools/backport/internal/pool"
	"github.com/psxtools/backport/internal/rawpatch"
	"github.com/psxtools/backport/internal/report"
	"github.com/psxtools/backport/internal/scan"
	"github.com/psxtools/backport/patch"
	"github.com/psxtools/backport/self"
)

// LibcPatchMaxPair is the highest SDK pair that needs the libc
// compatibility patch. Higher pairs run against firmware where the
// patch must be absent.
const LibcPatchMaxPair = 6

// DecryptedDirName is the subdirectory of the output root where
// unwrapped images are placed before re-signing.
const DecryptedDirName = "decrypted"

// Options configures a Runner.
type Options struct {
	Input  string
	Output string

	SDKPair     uint32
	PAID        uint64
	ProgramType format.ProgramType

	// LibcPatch applies the libc compatibility patch to signed output
	// when SDKPair <= LibcPatchMaxPair.
	LibcPatch bool
	// AutoRevert removes a previously applied libc patch from signed
	// output when SDKPair > LibcPatchMaxPair.
	AutoRevert bool

	// Backup writes a .bak copy next to each input file before its
	// metadata is rewritten in place.
	Backup bool
	// Overwrite replaces existing output files instead of skipping them.
	Overwrite bool

	Logger  hclog.Logger
	Printer *report.Printer
}

// Runner executes the processing pipelines.
type Runner struct {
	opts    Options
	log     hclog.Logger
	printer *report.Printer
}

// New creates a Runner. A nil Logger or Printer is replaced with a
// no-op implementation.
func New(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	printer := opts.Printer
	if printer == nil {
		printer = report.NewPrinter(os.Stdout, true, true)
	}

	return &Runner{opts: opts, log: log, printer: printer}
}

// Sign downgrades the SDK metadata of every plain image under the
// input path in place, wraps each into a signed container at the
// mirrored output path, and finally runs the libc pass over the output.
// Per-file failures are recorded in the report; only setup errors (a
// missing input path, an unusable output directory) abort the run.
func (r *Runner) Sign() (*report.Report, error) {
	entries, err := scan.Walk(r.opts.Input)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Kind == scan.KindELF {
			files = append(files, e.Path)
		}
	}

	rep := &report.Report{}
	if err := r.signFiles(r.opts.Input, files, rep); err != nil {
		return rep, err
	}
	r.libcPass(rep)

	return rep, nil
}

// Decrypt unwraps every signed container under the input path into a
// plain image at the mirrored output path.
func (r *Runner) Decrypt() (*report.Report, error) {
	entries, err := scan.Walk(r.opts.Input)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{}
	for _, e := range entries {
		if e.Kind != scan.KindSELF {
			continue
		}
		r.decryptOne(r.opts.Input, e.Path, r.opts.Output, rep)
	}

	return rep, nil
}

// Auto inspects the input path and routes each file through the right
// pipeline: signed containers are unwrapped into the output's
// "decrypted" subdirectory first, then everything is downgraded and
// re-signed into the output root. Plain images found alongside
// containers are copied into the working set so a single pass covers
// mixed dumps.
func (r *Runner) Auto() (*report.Report, error) {
	entries, err := scan.Walk(r.opts.Input)
	if err != nil {
		return nil, err
	}

	var selfs, elfs []string
	for _, e := range entries {
		switch e.Kind {
		case scan.KindSELF:
			selfs = append(selfs, e.Path)
		case scan.KindELF:
			elfs = append(elfs, e.Path)
		}
	}
	r.log.Info("detected input files", "self", len(selfs), "elf", len(elfs))

	rep := &report.Report{}
	if len(selfs) == 0 {
		if err := r.signFiles(r.opts.Input, elfs, rep); err != nil {
			return rep, err
		}
		r.libcPass(rep)

		return rep, nil
	}

	workDir := filepath.Join(r.opts.Output, DecryptedDirName)
	for _, path := range selfs {
		r.decryptOne(r.opts.Input, path, workDir, rep)
	}

	// Mixed dumps: bring plain images into the working set so the sign
	// pass sees everything under one root.
	for _, path := range elfs {
		dst := filepath.Join(workDir, relPath(r.opts.Input, path))
		if fileExists(dst) && !r.opts.Overwrite {
			continue
		}
		if err := copyFile(path, dst); err != nil {
			rep.Fail(path, err)
			r.printer.File(rep.Results[len(rep.Results)-1])
		}
	}

	workEntries, err := scan.Walk(workDir)
	if err != nil {
		return rep, err
	}
	var workFiles []string
	for _, e := range workEntries {
		if e.Kind == scan.KindELF {
			workFiles = append(workFiles, e.Path)
		}
	}

	if err := r.signFiles(workDir, workFiles, rep); err != nil {
		return rep, err
	}
	r.libcPass(rep)

	return rep, nil
}

func (r *Runner) signFiles(root string, files []string, rep *report.Report) error {
	if len(files) == 0 {
		r.log.Warn("no plain images found", "input", root)
		return nil
	}

	if err := os.MkdirAll(r.opts.Output, 0o755); err != nil {
		return err
	}

	for _, path := range files {
		r.signOne(root, path, rep)
		r.printer.File(rep.Results[len(rep.Results)-1])
	}

	return nil
}

func (r *Runner) signOne(root, path string, rep *report.Report) {
	rel := relPath(root, path)
	outPath := filepath.Join(r.opts.Output, rel)

	if fileExists(outPath) && !r.opts.Overwrite {
		rep.Skip(path, "output exists")
		return
	}

	buf := pool.GetImageBuffer()
	defer pool.PutImageBuffer(buf)

	if err := buf.ReadFile(path); err != nil {
		rep.Fail(path, err)
		return
	}

	img, err := elf.Parse(buf.Bytes())
	if err != nil {
		rep.Fail(path, err)
		return
	}

	if r.opts.Backup {
		if err := os.WriteFile(path+".bak", img.Data, 0o644); err != nil {
			rep.Fail(path, fmt.Errorf("write backup: %w", err))
			return
		}
	}

	r.log.Debug("downgrading metadata", "path", rel, "pair", r.opts.SDKPair)
	if err := patch.Apply(img, r.opts.SDKPair); err != nil {
		rep.Fail(path, err)
		return
	}

	// The downgrade is committed to the input file so re-runs and
	// external tools see consistent metadata.
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		rep.Fail(path, err)
		return
	}

	signed, err := self.Encode(img, self.Identity{
		AuthID:      r.opts.PAID,
		ProgramType: r.opts.ProgramType,
	})
	if err != nil {
		rep.Fail(path, err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		rep.Fail(path, err)
		return
	}
	if err := os.WriteFile(outPath, signed, 0o644); err != nil {
		rep.Fail(path, err)
		return
	}

	rep.OK(path, "signed to "+outPath)
}

func (r *Runner) decryptOne(root, path, outRoot string, rep *report.Report) {
	rel := relPath(root, path)
	outPath := filepath.Join(outRoot, rel)

	defer func() {
		r.printer.File(rep.Results[len(rep.Results)-1])
	}()

	if fileExists(outPath) && !r.opts.Overwrite {
		rep.Skip(path, "output exists")
		return
	}

	buf := pool.GetImageBuffer()
	defer pool.PutImageBuffer(buf)

	if err := buf.ReadFile(path); err != nil {
		rep.Fail(path, err)
		return
	}

	img, err := self.Decode(buf.Bytes())
	if err != nil {
		rep.Fail(path, err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		rep.Fail(path, err)
		return
	}
	if err := os.WriteFile(outPath, img.Data, 0o644); err != nil {
		rep.Fail(path, err)
		return
	}

	rep.OK(path, "decrypted to "+outPath)
}

// libcPass applies or reverts the libc compatibility patch on the
// signed output, depending on the selected SDK pair. It runs after
// signing so the substitution lands in the bytes that ship.
func (r *Runner) libcPass(rep *report.Report) {
	apply := r.opts.SDKPair <= LibcPatchMaxPair
	if apply && !r.opts.LibcPatch {
		return
	}
	if !apply && !r.opts.AutoRevert {
		return
	}

	targets := r.libcTargets()
	if len(targets) == 0 {
		return
	}

	p := rawpatch.New()
	for _, path := range targets {
		var (
			state rawpatch.State
			err   error
		)
		if apply {
			r.log.Debug("applying libc patch", "path", path)
			state, err = p.Apply(path, r.opts.Backup)
		} else {
			r.log.Debug("reverting libc patch", "path", path)
			state, err = p.Revert(path, r.opts.Backup)
		}

		switch {
		case errors.Is(err, rawpatch.ErrPatternNotFound):
			// Most signed files do not carry the pattern.
			r.log.Debug("libc pattern absent", "path", path)
		case err != nil:
			rep.Fail(path, err)
			r.printer.File(rep.Results[len(rep.Results)-1])
		default:
			rep.OK(path, "libc "+state.String())
			r.printer.File(rep.Results[len(rep.Results)-1])
		}
	}
}

// libcTargets returns the signed output files eligible for the libc
// pass: every container in the output root plus any file named
// libc.prx regardless of its magic.
func (r *Runner) libcTargets() []string {
	var targets []string
	seen := make(map[string]struct{})

	entries, err := scan.Walk(r.opts.Output)
	if err == nil {
		for _, e := range entries {
			if e.Kind != scan.KindSELF {
				continue
			}
			targets = append(targets, e.Path)
			seen[e.Path] = struct{}{}
		}
	}

	_ = filepath.WalkDir(r.opts.Output, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.EqualFold(d.Name(), "libc.prx") {
			return nil
		}
		if _, ok := seen[path]; !ok {
			targets = append(targets, path)
		}

		return nil
	})

	return targets
}

func relPath(root, path string) string {
	if root == path {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}

	return rel
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	return os.WriteFile(dst, data, 0o644)
}
