package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const testSchema = `host:
  type: string
  default: localhost
  env: HOST
  namespace: [net]
port:
  type: number
  default: 8080
  env: PORT
  namespace: [net]
debug:
  type: boolean
  default: false
  env: true
  namespace: [app]
name:
  type: string
  required: true
  env: APP_NAME
  namespace: [app]
api_token:
  type: string
  secret: true
  env: API_TOKEN
  namespace: [app]
orphan:
  type: string
  default: x
`

// workspace creates a temp directory holding confpipe.yaml and makes it the
// working directory. Config lookups are isolated from the user's files.
func workspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONFPIPE_CONFIG_DIR", filepath.Join(dir, "xdg"))
	t.Setenv(debugEnv, "")

	writeFile(t, filepath.Join(dir, "confpipe.yaml"), testSchema)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// stubEnviron replaces the process environment seen by the pipeline.
func stubEnviron(t *testing.T, vars ...string) {
	t.Helper()
	orig := environ
	environ = func() []string { return vars }
	t.Cleanup(func() { environ = orig })
}

// resetFlags restores every package-level flag variable, since cobra binds
// them once and they otherwise leak between executions.
func resetFlags() {
	verbosity, quiet = 0, false
	logFormat, logFile, configFile = "text", "", ""

	schemaFlag, profileFlag, profileDirFlag, envFileFlag = "", "", "", ""
	noProfileFlag = false
	namespaceFlag = nil

	resolveFormat, resolveOutput, resolveStrict = "", "", false
	checkJSON = false

	if f := rootCmd.Flags().Lookup("version"); f != nil {
		_ = f.Value.Set("false")
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with args and the given stdin.
func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	resetFlags()
	fsys = afero.NewOsFs()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := executeRoot()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
