//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/shortreel/internal/pipeline"
)

const cliTimeout = 90 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	env             map[string]string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	sample := filepath.Join(repoRoot, "internal", "itest", "testdata", "scenes.json")

	cases := []robustCase{
		{
			name: "no args",
			args: staticArgs(),
			wantContains: []string{
				"accepts 1 arg(s), received 0",
			},
		},
		{
			name: "too many args",
			args: staticArgs(sample, "extra"),
			wantContains: []string{
				"accepts 1 arg(s), received 2",
			},
		},
		{
			name: "unknown flag",
			args: staticArgs(sample, "--wat"),
			wantContains: []string{
				"unknown flag: --wat",
			},
		},
		{
			name: "subtitles non bool",
			args: staticArgs(sample, "--subtitles=nope"),
			wantContains: []string{
				`invalid argument "nope" for "--subtitles"`,
			},
		},
		{
			name: "unsupported log format",
			args: staticArgs(sample, "--log-format", "xml"),
			wantContains: []string{
				`config: log format: unsupported value "xml"`,
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_InvalidManifest(t *testing.T) {
	repoRoot := mustRepoRoot(t)

	cases := []robustCase{
		{
			name: "missing manifest path",
			args: staticArgs(filepath.Join(repoRoot, "internal", "itest", "testdata", "does-not-exist.json")),
			wantContains: []string{
				"config: stat manifest:",
			},
		},
		{
			name: "manifest is not json",
			args: withManifest(`scenes: []`),
			wantContains: []string{
				"parse manifest:",
			},
		},
		{
			name: "manifest without scenes",
			args: withManifest(`{"scenes":[]}`),
			wantContains: []string{
				"has no scenes",
			},
		},
		{
			name: "scene media file missing",
			args: withManifest(`{"scenes":[{"narration":"hi","image":"nope.png","audio":"nope.wav"}]}`),
			wantContains: []string{
				"scene 1 image:",
			},
		},
		{
			name: "second scene without audio",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				dir := t.TempDir()
				writeStill(t, filepath.Join(dir, "a.png"), "black", 64, 64)
				writeTone(t, filepath.Join(dir, "a.wav"), 0.5)
				manifest := filepath.Join(dir, "scenes.json")
				writeManifest(t, manifest, []pipeline.ManifestScene{
					{Narration: "one", Image: "a.png", Audio: "a.wav"},
					{Narration: "two", Image: "a.png"},
				})
				return []string{manifest}
			},
			wantContains: []string{
				"precondition: Scene 2: missing image or audio",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_Environment(t *testing.T) {
	repoRoot := mustRepoRoot(t)

	cases := []robustCase{
		{
			name: "explicit config missing",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{twoSceneManifest(t, t.TempDir()), "--config", filepath.Join(t.TempDir(), "nope.toml")}
			},
			wantContains: []string{
				"does not exist",
			},
		},
		{
			name: "config env var with unknown key",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{twoSceneManifest(t, t.TempDir())}
			},
			env: map[string]string{
				"SHORTREEL_CONFIG": filepath.Join(repoRoot, "internal", "itest", "testdata", "unknown_key.toml"),
			},
			wantContains: []string{
				"parse config:",
			},
		},
		{
			name: "ffmpeg binary missing",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{twoSceneManifest(t, t.TempDir())}
			},
			env: map[string]string{
				"SHORTREEL_FFMPEG": "/nonexistent/ffmpeg",
			},
			wantContains: []string{
				"engine: media engine unavailable",
			},
			wantNotContains: []string{
				"panic",
			},
		},
		{
			name: "out points to directory",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				dir := t.TempDir()
				return []string{twoSceneManifest(t, dir), "--out", dir, "--subtitles=false"}
			},
			wantContains: []string{
				"write output:",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func withManifest(body string) func(t *testing.T, _ string) []string {
	return func(t *testing.T, _ string) []string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "scenes.json")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write manifest fixture: %v", err)
		}
		return []string{path}
	}
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t, repoRoot), tc.env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/shortreel"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
