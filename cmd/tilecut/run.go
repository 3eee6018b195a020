package main

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"tilecut/internal/config"
	"tilecut/internal/cutter"
	"tilecut/internal/dmi"
)

// sheetExtensions are the source formats tried for a config's sibling
// sheet, in lookup order.
var sheetExtensions = []string{".png", ".webp", ".bmp"}

func isConfig(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// collectConfigs expands the command arguments into a stable, deduplicated
// list of config files.
func collectConfigs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "stat input %s", arg)
		}
		if !info.IsDir() {
			if isConfig(arg) {
				out = append(out, arg)
			}
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() && isConfig(p) {
				out = append(out, p)
			}
			return err
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk input %s", arg)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return natural.Less(out[i], out[j]) })

	dedup := out[:0]
	var last string
	for _, p := range out {
		if p != last {
			dedup = append(dedup, p)
			last = p
		}
	}
	if len(dedup) == 0 {
		return nil, errors.New("no config files found")
	}
	return dedup, nil
}

// newResolver builds the template resolver. A missing directory is fatal
// when --templates was set explicitly; the default directory is optional
// and degrades to ignoring template references.
func newResolver(cmdSet bool) (config.Resolver, error) {
	resolver, err := config.NewFileResolver(flagTemplates)
	if err != nil {
		if cmdSet {
			return nil, err
		}
		log.Debug().Str("dir", flagTemplates).
			Msg("no template directory, template references will not resolve")
		return config.NullResolver{}, nil
	}
	return resolver, nil
}

// findSheet locates the source sheet next to a config file.
func findSheet(configPath string) (string, error) {
	base := strings.TrimSuffix(configPath, filepath.Ext(configPath))
	for _, ext := range sheetExtensions {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext, nil
		}
	}
	return "", errors.Errorf("no source sheet for %s (tried %s with %s)",
		configPath, base, strings.Join(sheetExtensions, " "))
}

func decodeSheet(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sheet %s", path)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode sheet %s", path)
	}
	return img, nil
}

// destPath applies --flatten and --output to a path computed next to the
// input file.
func destPath(path string) string {
	if flagFlatten {
		path = filepath.Base(path)
	}
	if flagOutput != "" {
		path = filepath.Join(flagOutput, path)
	}
	return path
}

func writeFileAt(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create output dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// fileResult carries one processed config through the results channel.
type fileResult struct {
	path    string
	written []string
	err     error
}

// outputWriter persists one config's finished icon and debug artifacts,
// returning the paths it wrote.
type outputWriter func(configPath string, cfg *cutter.Config, icon *dmi.Icon, extras []cutter.NamedImage) ([]string, error)

// processConfig runs one config end to end through the given writer.
func processConfig(path string, resolver config.Resolver, write outputWriter) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	cfg, err := cutter.LoadConfig(f, resolver)
	f.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}

	sheetPath, err := findSheet(path)
	if err != nil {
		return nil, err
	}
	sheet, err := decodeSheet(sheetPath)
	if err != nil {
		return nil, err
	}

	icon, extras, err := cfg.Mode.Perform(sheet, flagDebug)
	if err != nil {
		return nil, errors.Wrapf(err, "process %s", path)
	}
	return write(path, cfg, icon, extras)
}

// writeIconOutputs writes the finished .dmi (and debug PNGs in debug mode)
// for one config.
func writeIconOutputs(configPath string, cfg *cutter.Config, icon *dmi.Icon, extras []cutter.NamedImage) ([]string, error) {
	base := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	dir := filepath.Dir(configPath)

	var written []string
	out := destPath(filepath.Join(dir, cfg.FilePrefix+base+".dmi"))
	err := writeFileAt(out, func(f *os.File) error {
		data, err := icon.Encode()
		if err != nil {
			return err
		}
		_, err = f.Write(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	written = append(written, out)

	for _, extra := range extras {
		p := destPath(filepath.Join(dir, base+"-DEBUG", extra.PathHint, extra.NameHint+".png"))
		img := extra.Image
		err := writeFileAt(p, func(f *os.File) error {
			return imaging.Encode(f, img, imaging.PNG)
		})
		if err != nil {
			return nil, err
		}
		written = append(written, p)
	}
	return written, nil
}

// runPipeline fans the collected configs over a worker pool and reports
// every failure at the end rather than stopping at the first. templatesSet
// tells the resolver whether --templates was given explicitly.
func runPipeline(args []string, write outputWriter, templatesSet bool) error {
	configs, err := collectConfigs(args)
	if err != nil {
		return err
	}
	log.Info().Int("files", len(configs)).Msg("collected configs")

	resolver, err := newResolver(templatesSet)
	if err != nil {
		return err
	}

	jobs := make(chan string, flagJobs)
	results := make(chan fileResult, flagJobs)

	var wg sync.WaitGroup
	for i := 0; i < flagJobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				written, err := processConfig(path, resolver, write)
				results <- fileResult{path: path, written: written, err: err}
			}
		}()
	}
	go func() {
		for _, path := range configs {
			jobs <- path
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var failures []fileResult
	for res := range results {
		if res.err != nil {
			failures = append(failures, res)
			continue
		}
		for _, p := range res.written {
			log.Info().Str("config", res.path).Str("output", p).Msg("wrote output")
		}
	}

	if len(failures) > 0 {
		for _, res := range failures {
			log.Error().Str("config", res.path).Err(res.err).Msg("failed")
		}
		return errors.Errorf("%d of %d files failed", len(failures), len(configs))
	}
	fmt.Printf("Successfully processed %d files!\n", len(configs))
	return nil
}
