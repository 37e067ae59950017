package commands

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/subosito/gotenv"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/logging"
	"github.com/thoreinstein/confpipe/internal/paths"
	"github.com/thoreinstein/confpipe/internal/profile"
	"github.com/thoreinstein/confpipe/internal/resolve"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// fsys is the filesystem schema, profile and env files are read from.
var fsys = afero.NewOsFs()

// environ supplies the process environment.
var environ = os.Environ

// Flags shared by every command that runs the pipeline.
var (
	schemaFlag     string
	profileFlag    string
	noProfileFlag  bool
	profileDirFlag string
	envFileFlag    string
	namespaceFlag  []string
)

func addPipelineFlags(f *pflag.FlagSet) {
	f.StringVar(&schemaFlag, "schema", "",
		"schema file: .yaml, .yml, .json or .toml (default from config: confpipe.yaml)")
	f.StringVar(&profileFlag, "profile", "",
		"profile name (default: $PROFILE)")
	f.BoolVar(&noProfileFlag, "no-profile", false,
		"apply no profile, even when $PROFILE is set")
	f.StringVar(&profileDirFlag, "profile-dir", "",
		"directory holding profile files (default from config: .)")
	f.StringVar(&envFileFlag, "env-file", "",
		"dotenv file layered under the process environment")
	f.StringSliceVarP(&namespaceFlag, "namespace", "n", nil,
		"active namespace, repeatable (default: every namespace)")
}

// settings are the pipeline inputs after merging flags over config.
type settings struct {
	schemaPath string
	profileDir string
	envFile    string
	namespaces []string
}

// currentSettings merges flags over config and expands every path against
// the home and working directories.
func currentSettings() (settings, error) {
	s := settings{schemaPath: "confpipe.yaml", profileDir: "."}
	if cfg != nil {
		s.schemaPath = cfg.Schema
		s.profileDir = cfg.ProfileDir
		s.envFile = cfg.EnvFile
		s.namespaces = cfg.Namespaces
	}

	if schemaFlag != "" {
		s.schemaPath = schemaFlag
	}
	if profileDirFlag != "" {
		s.profileDir = profileDirFlag
	}
	if envFileFlag != "" {
		s.envFile = envFileFlag
	}
	if len(namespaceFlag) > 0 {
		s.namespaces = namespaceFlag
	}

	for _, p := range []*string{&s.schemaPath, &s.profileDir, &s.envFile} {
		expanded, err := expandPath(*p)
		if err != nil {
			return settings{}, err
		}
		*p = expanded
	}
	return s, nil
}

// expandPath resolves a leading "~" and makes p absolute. Empty paths stay
// empty.
func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	resolved, err := paths.Resolve(p, "")
	if err != nil {
		return "", errors.NewUserError(err, "Check the paths given in flags and config.yaml")
	}
	return resolved, nil
}

// pipelineRun is a finished pipeline run together with its inputs.
type pipelineRun struct {
	schemaPath  string
	schema      schema.Schema
	environment resolve.Environment
	profileName string
	result      *resolve.Result
}

// runPipeline loads the schema and inputs selected by flags and config and
// resolves them. When logDiagnostics is false the pipeline's per-diagnostic
// warnings are suppressed because the caller prints them itself.
func runPipeline(cmd *cobra.Command, logDiagnostics bool, opts ...resolve.Option) (*pipelineRun, error) {
	if profileFlag != "" && noProfileFlag {
		return nil, errors.NewUserError(
			errors.New("--profile and --no-profile cannot be used together"),
			"Pass one of them",
		)
	}

	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	set, err := currentSettings()
	if err != nil {
		return nil, err
	}

	s, err := schema.Load(fsys, set.schemaPath)
	if err != nil {
		return nil, errors.NewUserError(err, "Pass the schema file with --schema")
	}

	env, err := buildEnvironment(set.envFile)
	if err != nil {
		return nil, err
	}

	src, name := profileSource(env, set.profileDir)

	log.Info("resolving",
		"schema", set.schemaPath,
		"keys", s.Len(),
		"profile", name,
		"namespaces", set.namespaces,
	)

	pipelineLog := log
	if !logDiagnostics && verbosity == 0 {
		pipelineLog = logging.NewDiscard()
	}

	p := resolve.New(append([]resolve.Option{resolve.WithLogger(pipelineLog)}, opts...)...)
	res, err := p.Run(ctx, s, resolve.Input{
		Profile:     src,
		Environment: env,
		Namespaces:  resolve.NamespacesFromTags(set.namespaces),
	})
	if err != nil {
		return nil, profileError(err)
	}

	return &pipelineRun{
		schemaPath:  set.schemaPath,
		schema:      s,
		environment: env,
		profileName: name,
		result:      res,
	}, nil
}

// buildEnvironment returns the process environment, layered over the
// dotenv file when one is given.
func buildEnvironment(envFile string) (resolve.Environment, error) {
	process := resolve.EnvironmentFromList(environ())
	if envFile == "" {
		return process, nil
	}

	f, err := fsys.Open(envFile)
	if err != nil {
		return nil, errors.NewUserError(
			errors.Wrapf(err, "opening env file %s", envFile),
			"Check the --env-file path",
		)
	}
	defer f.Close()

	dotenv, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, errors.NewUserError(
			errors.Wrapf(err, "parsing env file %s", envFile),
			"Env files hold one KEY=value per line",
		)
	}

	return resolve.Merge(resolve.Environment(dotenv), process), nil
}

// profileSource picks the profile: --no-profile, then --profile, then
// $PROFILE from the assembled environment.
func profileSource(env resolve.Environment, dir string) (profile.Source, string) {
	if noProfileFlag {
		return profile.None, ""
	}

	name := profileFlag
	if name == "" {
		name, _ = env.Lookup(profile.EnvVar)
	}
	if name == "" {
		return profile.None, ""
	}

	src := profile.NewNamed(name, dir)
	src.Fs = fsys
	return src, name
}

func profileError(err error) error {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		return errors.NewUserError(err, "Check --profile and --profile-dir, or pass --no-profile")
	case errors.Is(err, profile.ErrScriptProfile):
		return errors.NewUserError(err, "Convert the profile to YAML, TOML or JSON")
	case errors.Is(err, profile.ErrInvalidProfile):
		return errors.NewUserError(err, "A profile must be a flat mapping of key to value")
	default:
		return errors.NewUserError(err, "")
	}
}
