package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeHome(t *testing.T, exe string) string {
	t.Helper()
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, "bin", exe), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return home
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func noPath(string) (string, error) { return "", errors.New("not in PATH") }

func TestResolveAntFromEnv(t *testing.T) {
	home := makeHome(t, "ant.bat")
	l := Locator{Getenv: envMap(map[string]string{"ANT_HOME": home}), LookPath: noPath, GOOS: "windows"}

	res, err := l.ResolveAnt("")
	if err != nil {
		t.Fatalf("ResolveAnt: %v", err)
	}
	if res.Source != SourceEnv || res.Path != filepath.Join(home, "bin", "ant.bat") {
		t.Errorf("res = %+v", res)
	}
	env := res.Env(Ant)
	if len(env) != 1 || env[0] != "ANT_HOME="+home {
		t.Errorf("Env = %v", env)
	}
}

func TestResolveAntConfigWinsOverEnv(t *testing.T) {
	configured := makeHome(t, "ant")
	fromEnv := makeHome(t, "ant")
	l := Locator{Getenv: envMap(map[string]string{"ANT_HOME": fromEnv}), LookPath: noPath, GOOS: "linux"}

	res, err := l.ResolveAnt(configured)
	if err != nil {
		t.Fatalf("ResolveAnt: %v", err)
	}
	if res.Home != configured || res.Source != SourceConfig {
		t.Errorf("res = %+v, want configured home", res)
	}
}

func TestResolveAntFallsBackToEnvWhenConfigBroken(t *testing.T) {
	fromEnv := makeHome(t, "ant")
	l := Locator{Getenv: envMap(map[string]string{"ANT_HOME": fromEnv}), LookPath: noPath, GOOS: "linux"}

	res, err := l.ResolveAnt(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("ResolveAnt: %v", err)
	}
	if res.Home != fromEnv {
		t.Errorf("Home = %s, want %s", res.Home, fromEnv)
	}
}

func TestResolveAntUnsetIgnoresPath(t *testing.T) {
	lookups := 0
	l := Locator{
		Getenv: envMap(nil),
		LookPath: func(string) (string, error) {
			lookups++
			return "/usr/bin/ant", nil
		},
		GOOS: "linux",
	}

	_, err := l.ResolveAnt("")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "ANT_HOME is not set") {
		t.Errorf("err = %v", err)
	}
	if lookups != 0 {
		t.Errorf("LookPath called %d times", lookups)
	}
}

func TestResolveJavaFromPath(t *testing.T) {
	l := Locator{
		Getenv:   envMap(nil),
		LookPath: func(name string) (string, error) { return filepath.Join("/opt/jdk/bin", name), nil },
		GOOS:     "linux",
	}
	res, err := l.ResolveJava("")
	if err != nil {
		t.Fatalf("ResolveJava: %v", err)
	}
	if res.Source != SourcePath || res.Home != "/opt/jdk" {
		t.Errorf("res = %+v", res)
	}
}

func TestDetectReportsVersionsAndMinimum(t *testing.T) {
	orig := runVersion
	defer func() { runVersion = orig }()
	runVersion = func(_ context.Context, path, _ string, _ []string) ([]byte, error) {
		if filepath.Base(path) == "ant" {
			return []byte("Apache Ant(TM) version 1.7.1 compiled on June 27 2008\n"), nil
		}
		return []byte(`openjdk version "17.0.2" 2022-01-18` + "\n"), nil
	}

	antHome := makeHome(t, "ant")
	javaHome := makeHome(t, "java")
	l := Locator{Getenv: envMap(nil), LookPath: noPath, GOOS: "linux"}

	statuses := l.Detect(context.Background(), Homes{Ant: antHome, Java: javaHome}, "1.8.0")
	if len(statuses) != 2 {
		t.Fatalf("len(statuses) = %d", len(statuses))
	}
	ant, java := statuses[0], statuses[1]
	if ant.Version != "1.7.1" || ant.Satisfied {
		t.Errorf("ant = %+v, want unsatisfied 1.7.1", ant)
	}
	if !strings.Contains(ant.Error, "below minimum") || len(ant.Hints) == 0 {
		t.Errorf("ant error/hints = %q %v", ant.Error, ant.Hints)
	}
	if java.Version != "17.0.2" || !java.Satisfied {
		t.Errorf("java = %+v", java)
	}
}

func TestDetectMissingToolHasHints(t *testing.T) {
	l := Locator{Getenv: envMap(nil), LookPath: noPath, GOOS: "windows"}
	statuses := l.Detect(context.Background(), Homes{}, "1.8.0")
	for _, st := range statuses {
		if st.Satisfied || st.Error == "" || len(st.Hints) == 0 {
			t.Errorf("%s status = %+v, want error with hints", st.Tool, st)
		}
	}
}
